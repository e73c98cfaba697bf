package liminal

import (
	"sync"
	"time"
)

// TemporalProfile classifies recent latency behavior against the
// gateway's own adaptive thresholds.
type TemporalProfile int

const (
	Medium TemporalProfile = iota
	Fast
	Slow
	Variable
)

func (p TemporalProfile) String() string {
	switch p {
	case Fast:
		return "fast"
	case Slow:
		return "slow"
	case Variable:
		return "variable"
	default:
		return "medium"
	}
}

// temporalEMAHalfLife is the half-life of the p95 EMA that drives the
// fast/slow percentile thresholds.
const temporalEMAHalfLife = 5 * time.Minute

// temporalVarianceWindow is how many raw p95 samples feed the
// variance-over-mean "Variable" check.
const temporalVarianceWindow = 10

// TemporalTracker derives a TemporalProfile from a rolling classification
// of p95 latencies against adaptive percentile thresholds.
type TemporalTracker struct {
	ema *AdaptiveThreshold

	mu     sync.Mutex
	recent []float64
}

// NewTemporalTracker returns a tracker with the standard 5-minute EMA
// half-life for threshold adaptation.
func NewTemporalTracker() *TemporalTracker {
	return &TemporalTracker{ema: NewAdaptiveThreshold(temporalEMAHalfLife)}
}

// Observe feeds one p95 sample and returns the resulting profile.
func (t *TemporalTracker) Observe(p95Ms float64, now time.Time) TemporalProfile {
	t.ema.Update(p95Ms, now)
	fastLimit := t.ema.Percentile(25)
	slowLimit := t.ema.Percentile(75)

	t.mu.Lock()
	t.recent = append(t.recent, p95Ms)
	if len(t.recent) > temporalVarianceWindow {
		t.recent = t.recent[len(t.recent)-temporalVarianceWindow:]
	}
	mean, variance := meanVariance(t.recent)
	t.mu.Unlock()

	if len(t.recent) >= temporalVarianceWindow && mean > 0 && variance > 2*mean {
		return Variable
	}
	switch {
	case p95Ms < fastLimit:
		return Fast
	case p95Ms > slowLimit:
		return Slow
	default:
		return Medium
	}
}

func meanVariance(samples []float64) (mean, variance float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean = sum / float64(len(samples))
	var sqDiff float64
	for _, s := range samples {
		d := s - mean
		sqDiff += d * d
	}
	variance = sqDiff / float64(len(samples))
	return mean, variance
}
