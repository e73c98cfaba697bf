package upstream

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// rpsWindow is the width of the sliding window current_rps is computed over.
const rpsWindow = time.Second

// histMin/histMax/histSigFigs bound the latency histogram to 1ms..2min at
// three significant figures, matching the resolution the original upstream
// stats block keeps for its own quantile queries.
const (
	histMin     = int64(1)
	histMax     = int64(120_000)
	histSigFigs = 3
)

// Stats holds rolling counters, a latency histogram, and a recent-request
// timestamp window for one upstream, all protected under a single
// read-mostly lock.
type Stats struct {
	mu sync.RWMutex

	successCount uint64
	errorCount   uint64
	cancelCount  uint64

	hist *hdrhistogram.Histogram

	recent       []time.Time
	lastSuccess  time.Time
	lastObserved time.Time
}

// NewStats returns a zeroed Stats block ready to record observations.
func NewStats() *Stats {
	return &Stats{
		hist: hdrhistogram.New(histMin, histMax, histSigFigs),
	}
}

// Record advances counters and the latency histogram for one terminal
// outcome. success is ignored when this call represents a quantum-hedge
// cancellation; use RecordCancelled for that case instead.
func (s *Stats) Record(latency time.Duration, success bool) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recordLatencyLocked(latency)
	if success {
		s.successCount++
		s.lastSuccess = now
	} else {
		s.errorCount++
	}
	s.lastObserved = now
	s.pruneLocked(now)
}

// RecordCancelled records a quantum-hedge loser: its latency counts toward
// the histogram and RPS window, but it is neither a success nor an error.
func (s *Stats) RecordCancelled(latency time.Duration) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recordLatencyLocked(latency)
	s.cancelCount++
	s.lastObserved = now
	s.pruneLocked(now)
}

func (s *Stats) recordLatencyLocked(latency time.Duration) {
	ms := latency.Milliseconds()
	if ms < histMin {
		ms = histMin
	}
	if ms > histMax {
		ms = histMax
	}
	_ = s.hist.RecordValue(ms)
	s.recent = append(s.recent, time.Now())
}

// pruneLocked drops timestamps older than rpsWindow from the recent slice.
func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-rpsWindow)
	i := 0
	for i < len(s.recent) && s.recent[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		s.recent = append([]time.Time{}, s.recent[i:]...)
	}
}

// CurrentRPS returns request throughput over the trailing one-second window.
func (s *Stats) CurrentRPS() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-rpsWindow)
	count := 0
	for _, t := range s.recent {
		if t.After(cutoff) {
			count++
		}
	}
	return float64(count)
}

// ErrorRate returns errors / (successes + errors), 0 if there have been no
// terminal (non-cancelled) observations yet.
func (s *Stats) ErrorRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.successCount + s.errorCount
	if total == 0 {
		return 0
	}
	return float64(s.errorCount) / float64(total)
}

// P50/P95/P99 report latency quantiles in milliseconds from the histogram.
func (s *Stats) P50() float64 { return s.quantile(50) }
func (s *Stats) P95() float64 { return s.quantile(95) }
func (s *Stats) P99() float64 { return s.quantile(99) }

func (s *Stats) quantile(q float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return float64(s.hist.ValueAtQuantile(q))
}

// LastSuccess returns the timestamp of the most recent successful
// observation, the zero value if there has never been one.
func (s *Stats) LastSuccess() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSuccess
}

// Counts returns the raw success/error/cancelled counters.
func (s *Stats) Counts() (success, errors, cancelled uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.successCount, s.errorCount, s.cancelCount
}
