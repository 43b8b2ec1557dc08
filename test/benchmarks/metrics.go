package benchmarks

import (
	"slices"
	"testing"
	"time"
)

// Latencies collects per-operation durations so a benchmark can report tail
// latency next to the ns/op average.
type Latencies struct {
	durations []time.Duration
}

func (l *Latencies) Time(fn func()) {
	start := time.Now()
	fn()
	l.durations = append(l.durations, time.Since(start))
}

func (l *Latencies) Percentile(p float64) time.Duration {
	if len(l.durations) == 0 {
		return 0
	}
	sorted := slices.Clone(l.durations)
	slices.Sort(sorted)
	return sorted[int(float64(len(sorted)-1)*p)]
}

// Report attaches p50/p99 in microseconds to the benchmark output.
func (l *Latencies) Report(b *testing.B) {
	b.ReportMetric(float64(l.Percentile(0.50).Microseconds()), "p50-µs")
	b.ReportMetric(float64(l.Percentile(0.99).Microseconds()), "p99-µs")
}
