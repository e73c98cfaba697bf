package liminal

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// echoBaselineHalfLife is the half-life backing each bucket's rolling
// baseline mean/variance, approximating the "1-h baseline" the anomaly
// rule is defined against.
const echoBaselineHalfLife = time.Hour

// ShadowDiff records a status-code divergence observed between a primary
// response and its shadow counterpart in Compare mode. Response headers are
// not compared.
type ShadowDiff struct {
	Route         string
	PrimaryStatus int
	ShadowStatus  int
	At            time.Time
}

func (d ShadowDiff) String() string {
	return fmt.Sprintf("shadow_diff{status=%d,primary=%d}", d.ShadowStatus, d.PrimaryStatus)
}

type bucketKey struct {
	route         string
	statusClass   string
	latencyBucket string
}

type bucket struct {
	tickCount      int
	tickAnomalies  int
	mean           *AdaptiveThreshold
	variance       *AdaptiveThreshold
}

func newBucket() *bucket {
	return &bucket{
		mean:     NewAdaptiveThreshold(echoBaselineHalfLife),
		variance: NewAdaptiveThreshold(echoBaselineHalfLife),
	}
}

// EchoAnalyzer maintains per-route rolling buckets of (status_class,
// latency_bucket) observations and flags buckets whose rate deviates from
// their own hourly baseline by more than 3 standard deviations.
type EchoAnalyzer struct {
	mu          sync.Mutex
	buckets     map[bucketKey]*bucket
	shadowDiffs map[string][]ShadowDiff

	lastTickAnomalies int
}

const maxShadowDiffsPerRoute = 256

// NewEchoAnalyzer returns an empty analyzer.
func NewEchoAnalyzer() *EchoAnalyzer {
	return &EchoAnalyzer{
		buckets:     make(map[bucketKey]*bucket),
		shadowDiffs: make(map[string][]ShadowDiff),
	}
}

// RecordEcho registers one request outcome against its route's bucket and
// performs an online check against that bucket's last-known baseline.
func (e *EchoAnalyzer) RecordEcho(route string, statusCode int, latency time.Duration) {
	key := bucketKey{route: route, statusClass: statusClass(statusCode), latencyBucket: latencyBucket(latency)}

	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.buckets[key]
	if !ok {
		b = newBucket()
		e.buckets[key] = b
	}
	b.tickCount++

	mean := b.mean.Current()
	variance := b.variance.Current()
	std := math.Sqrt(variance)
	if std > 0 && math.Abs(float64(b.tickCount)-mean) > 3*std {
		b.tickAnomalies++
	}
}

// RecordShadowDiff appends a status-divergence record for Compare-mode
// shadow traffic, bounded to the most recent maxShadowDiffsPerRoute
// entries per route.
func (e *EchoAnalyzer) RecordShadowDiff(route string, primaryStatus, shadowStatus int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	diffs := append(e.shadowDiffs[route], ShadowDiff{
		Route:         route,
		PrimaryStatus: primaryStatus,
		ShadowStatus:  shadowStatus,
		At:            time.Now(),
	})
	if len(diffs) > maxShadowDiffsPerRoute {
		diffs = diffs[len(diffs)-maxShadowDiffsPerRoute:]
	}
	e.shadowDiffs[route] = diffs
}

// ShadowDiffs returns the recorded shadow diffs for a route, most recent last.
func (e *EchoAnalyzer) ShadowDiffs(route string) []ShadowDiff {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ShadowDiff{}, e.shadowDiffs[route]...)
}

// AdvanceWindows folds each bucket's tick count into its hourly baseline
// EMA and rolls up the anomaly count observed this window. It must be
// called once per update tick, after consciousness has been evaluated
// against the anomaly count from the previous tick.
func (e *EchoAnalyzer) AdvanceWindows(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for _, b := range e.buckets {
		rate := float64(b.tickCount)
		mean := b.mean.Update(rate, now)
		b.variance.Update((rate-mean)*(rate-mean), now)
		total += b.tickAnomalies
		b.tickCount = 0
		b.tickAnomalies = 0
	}
	e.lastTickAnomalies = total
	return total
}

// AnomalyCount returns the anomaly total computed by the most recent
// AdvanceWindows call, for inclusion in the next AwarenessFactors.
func (e *EchoAnalyzer) AnomalyCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTickAnomalies
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "0xx"
	}
}

func latencyBucket(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 50:
		return "<50ms"
	case ms < 100:
		return "50-100ms"
	case ms < 300:
		return "100-300ms"
	case ms < 1000:
		return "300-1000ms"
	default:
		return ">1000ms"
	}
}
