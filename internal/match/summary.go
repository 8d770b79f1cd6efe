package match

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/notnil/chess"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarises a sample. The deviation of fewer than two
// values is reported as zero.
type Distribution struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	P90    float64
	Max    float64
}

// Describe computes descriptive statistics for sample.
func Describe(sample []float64) Distribution {
	if len(sample) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(sample)
	slices.Sort(sorted)

	d := Distribution{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}

// Comparison tests whether two samples differ, using the Mann-Whitney U
// test with a normal approximation and Cohen's d for effect size.
type Comparison struct {
	U           float64
	Z           float64
	PValue      float64
	Significant bool // p < 0.05
	CohensD     float64
	Effect      string
}

// Compare compares sample a against sample b.
func Compare(a, b []float64) Comparison {
	if len(a) == 0 || len(b) == 0 {
		return Comparison{PValue: 1, Effect: "undefined"}
	}

	n1, n2 := float64(len(a)), float64(len(b))
	u1 := rankSum(a, b) - n1*(n1+1)/2
	u := math.Min(u1, n1*n2-u1)

	var z float64
	if sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12); sigma > 0 {
		z = (u - n1*n2/2) / sigma
	}
	p := math.Erfc(math.Abs(z) / math.Sqrt2)

	var d float64
	if len(a)+len(b) > 2 {
		va, vb := variance(a), variance(b)
		pooled := math.Sqrt(((n1-1)*va + (n2-1)*vb) / (n1 + n2 - 2))
		if pooled > 0 {
			d = (stat.Mean(a, nil) - stat.Mean(b, nil)) / pooled
		}
	}

	return Comparison{
		U:           u,
		Z:           z,
		PValue:      p,
		Significant: p < 0.05,
		CohensD:     d,
		Effect:      effect(math.Abs(d)),
	}
}

// rankSum returns the sum of the ranks of a within a ∪ b, averaging ties.
func rankSum(a, b []float64) float64 {
	type ranked struct {
		value float64
		fromA bool
	}
	all := make([]ranked, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, ranked{v, true})
	}
	for _, v := range b {
		all = append(all, ranked{v, false})
	}
	slices.SortFunc(all, func(x, y ranked) int {
		switch {
		case x.value < y.value:
			return -1
		case x.value > y.value:
			return 1
		}
		return 0
	})

	var sum float64
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		rank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if all[k].fromA {
				sum += rank
			}
		}
		i = j
	}
	return sum
}

func variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

func effect(d float64) string {
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	}
	return "large"
}

// Summary aggregates a match result.
type Summary struct {
	White, Black string
	Outcome      chess.Outcome
	Reason       string
	Plies        int

	// Think times in seconds per side.
	WhiteTime Distribution
	BlackTime Distribution
	Times     Comparison

	AdvisorChecks     int
	AdvisorAgreements int
}

// AgreementRate returns the share of advised plies where the advisor
// proposed the move that was played.
func (s Summary) AgreementRate() float64 {
	if s.AdvisorChecks == 0 {
		return 0
	}
	return float64(s.AdvisorAgreements) / float64(s.AdvisorChecks)
}

// Summary computes statistics over the plies of r.
func (r *Result) Summary() Summary {
	s := Summary{
		Outcome: r.Outcome,
		Reason:  r.Reason,
		Plies:   len(r.Plies),
	}

	var white, black []float64
	for _, p := range r.Plies {
		secs := p.Elapsed.Seconds()
		if p.Color == chess.White {
			white = append(white, secs)
			s.White = p.Mover
		} else {
			black = append(black, secs)
			s.Black = p.Mover
		}
		if p.Advice != nil {
			s.AdvisorChecks++
			if p.Agreed() {
				s.AdvisorAgreements++
			}
		}
	}

	s.WhiteTime = Describe(white)
	s.BlackTime = Describe(black)
	s.Times = Compare(white, black)
	return s
}

// String renders the summary as a short report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s: %s (%s) after %d plies\n", s.White, s.Black, s.Outcome, s.Reason, s.Plies)
	fmt.Fprintf(&b, "  white: %s\n", describeTimes(s.WhiteTime))
	fmt.Fprintf(&b, "  black: %s\n", describeTimes(s.BlackTime))
	if s.AdvisorChecks > 0 {
		fmt.Fprintf(&b, "  advisor agreed on %d/%d plies (%.1f%%)\n",
			s.AdvisorAgreements, s.AdvisorChecks, 100*s.AgreementRate())
	}
	return b.String()
}

func describeTimes(d Distribution) string {
	if d.N == 0 {
		return "no moves"
	}
	sec := func(v float64) time.Duration {
		return time.Duration(v * float64(time.Second)).Round(time.Microsecond)
	}
	return fmt.Sprintf("%d moves, mean %s, median %s, std %s, max %s",
		d.N, sec(d.Mean), sec(d.Median), sec(d.StdDev), sec(d.Max))
}
