package stats

import "sync"

// Recorder keeps metrics in memory so callers can read them back.
// It is safe for concurrent use.
type Recorder struct {
	mu           sync.Mutex
	counters     map[string]int64
	gauges       map[string]int64
	observations map[string][]float64
}

// Compile-time check that Recorder implements Collector.
var _ Collector = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counters:     make(map[string]int64),
		gauges:       make(map[string]int64),
		observations: make(map[string][]float64),
	}
}

// IncCounter adds delta to the named counter.
func (r *Recorder) IncCounter(name string, delta int64) {
	r.mu.Lock()
	r.counters[name] += delta
	r.mu.Unlock()
}

// SetGauge stores the gauge value.
func (r *Recorder) SetGauge(name string, value int64) {
	r.mu.Lock()
	r.gauges[name] = value
	r.mu.Unlock()
}

// ObserveHistogram appends value to the named series.
func (r *Recorder) ObserveHistogram(name string, value float64) {
	r.mu.Lock()
	r.observations[name] = append(r.observations[name], value)
	r.mu.Unlock()
}

// Counter returns the current counter value.
func (r *Recorder) Counter(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Gauge returns the last gauge value.
func (r *Recorder) Gauge(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gauges[name]
}

// Observations returns a copy of the recorded histogram values.
func (r *Recorder) Observations(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.observations[name]))
	copy(out, r.observations[name])
	return out
}
