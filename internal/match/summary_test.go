package match

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/notnil/chess"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		want   Distribution
	}{
		{
			name: "empty",
			want: Distribution{},
		},
		{
			name:   "single value",
			sample: []float64{2},
			want:   Distribution{N: 1, Mean: 2, Min: 2, Median: 2, P90: 2, Max: 2},
		},
		{
			name:   "unsorted",
			sample: []float64{4, 1, 3, 2, 5},
			want:   Distribution{N: 5, Mean: 3, StdDev: math.Sqrt(2.5), Min: 1, Median: 3, P90: 5, Max: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.sample)
			if got.N != tt.want.N || got.Min != tt.want.Min || got.Max != tt.want.Max ||
				got.Median != tt.want.Median || got.P90 != tt.want.P90 {
				t.Errorf("Describe() = %+v, want %+v", got, tt.want)
			}
			if math.Abs(got.Mean-tt.want.Mean) > 1e-9 || math.Abs(got.StdDev-tt.want.StdDev) > 1e-9 {
				t.Errorf("mean/std = %v/%v, want %v/%v", got.Mean, got.StdDev, tt.want.Mean, tt.want.StdDev)
			}
		})
	}
}

func TestDescribe_DoesNotSortInput(t *testing.T) {
	sample := []float64{3, 1, 2}
	Describe(sample)
	if sample[0] != 3 || sample[1] != 1 || sample[2] != 2 {
		t.Errorf("sample = %v, want it untouched", sample)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name       string
		a, b       []float64
		wantSignif bool
		wantEffect string
	}{
		{
			name:       "identical",
			a:          []float64{1, 2, 3, 4, 5},
			b:          []float64{1, 2, 3, 4, 5},
			wantSignif: false,
			wantEffect: "negligible",
		},
		{
			name:       "clearly different",
			a:          []float64{1, 2, 3, 4, 5},
			b:          []float64{10, 11, 12, 13, 14},
			wantSignif: true,
			wantEffect: "large",
		},
		{
			name:       "empty side",
			a:          nil,
			b:          []float64{1, 2},
			wantSignif: false,
			wantEffect: "undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if got.Significant != tt.wantSignif {
				t.Errorf("Significant = %v, want %v (p=%f)", got.Significant, tt.wantSignif, got.PValue)
			}
			if got.Effect != tt.wantEffect {
				t.Errorf("Effect = %q, want %q (d=%f)", got.Effect, tt.wantEffect, got.CohensD)
			}
			if got.PValue < 0 || got.PValue > 1 {
				t.Errorf("PValue = %f, want within [0, 1]", got.PValue)
			}
		})
	}
}

func TestResult_Summary(t *testing.T) {
	e4, e5 := &chess.Move{}, &chess.Move{}
	res := &Result{
		Outcome: chess.Draw,
		Reason:  ReasonPlyLimit,
		Plies: []Ply{
			{Number: 1, Color: chess.White, Mover: "alphabeta", Move: e4, Elapsed: 10 * time.Millisecond},
			{Number: 2, Color: chess.Black, Mover: "stockfish", Move: e5, Elapsed: time.Second},
			{Number: 3, Color: chess.White, Mover: "alphabeta", Move: e4, Elapsed: 30 * time.Millisecond},
		},
	}

	s := res.Summary()
	if s.White != "alphabeta" || s.Black != "stockfish" {
		t.Errorf("players = %s/%s", s.White, s.Black)
	}
	if s.Plies != 3 {
		t.Errorf("Plies = %d, want 3", s.Plies)
	}
	if s.WhiteTime.N != 2 || math.Abs(s.WhiteTime.Mean-0.02) > 1e-9 {
		t.Errorf("WhiteTime = %+v, want 2 moves averaging 20ms", s.WhiteTime)
	}
	if s.BlackTime.N != 1 || s.BlackTime.StdDev != 0 {
		t.Errorf("BlackTime = %+v, want 1 move with zero deviation", s.BlackTime)
	}
	if s.AdvisorChecks != 0 || s.AgreementRate() != 0 {
		t.Errorf("advisor = %d checks, rate %v, want none", s.AdvisorChecks, s.AgreementRate())
	}

	out := s.String()
	for _, want := range []string{"alphabeta vs stockfish", "1/2-1/2", "ply limit", "2 moves"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() = %q, missing %q", out, want)
		}
	}
	if strings.Contains(out, "advisor") {
		t.Errorf("String() = %q, mentions an advisor that never ran", out)
	}
}
