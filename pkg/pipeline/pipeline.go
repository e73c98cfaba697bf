package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/policy"
	"dao-gateway/core/pkg/upstream"
)

// Result is everything pkg/server needs to finish answering a request:
// the response to write, the name of the upstream that served it, the
// consciousness level in effect, and whether the request was shadowed.
type Result struct {
	Response     *Response
	UpstreamName string
	Level        liminal.ConsciousnessLevel
	Shadowed     bool
}

// WeightsFunc returns the policy weights to score with for the
// request currently being handled. The host updates the function's
// backing state as configuration changes (including metamorphic
// transitions); the pipeline itself never reads configuration.
type WeightsFunc func() policy.Weights

// Pipeline is the ten-step request orchestrator. Its collaborators are
// injected so tests can substitute fakes for any of them.
type Pipeline struct {
	Registry  *upstream.Registry
	Controller *liminal.Controller

	RouteMatcher      RouteMatcher
	IntentClassifier  IntentClassifier
	FilterChain       FilterChain // optional; nil skips filtering
	Pool              ConnectionPool
	Weights           WeightsFunc

	Logger *slog.Logger

	// Rand backs shadow-rate sampling; overridable for deterministic
	// tests.
	Rand *rand.Rand
}

// Handle runs the full pipeline for one inbound request and returns a
// Result ready for pkg/server to render. It never panics: a recovered
// panic becomes an InternalError-shaped 500 response.
func (p *Pipeline) Handle(ctx context.Context, req *http.Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger().Error("pipeline: recovered panic", "panic", r)
			res = p.errorResult(http.StatusInternalServerError, "internal error", liminal.Dormant)
			err = nil
		}
	}()

	// Step 1: ritual gate.
	if !p.Controller.IsProductionReady() {
		retryAfter := p.Controller.RetryAfter(time.Now())
		return p.ritualNotReadyResult(retryAfter), nil
	}

	// Step 2: route match.
	route, ok := p.RouteMatcher.Match(req.Host, req.URL.Path)
	if !ok {
		p.Controller.RecordEcho("unknown", http.StatusNotFound, 0)
		return p.errorResult(http.StatusNotFound, "no route", liminal.Dormant), nil
	}

	level := p.Controller.CurrentLevel()
	temporal := p.Controller.CurrentTemporal()
	intent, _ := p.classify(req.Header)

	// Steps 3 + 5: presence filter is folded into policy.Select, which
	// never returns an Absent/Unknown upstream and fails with
	// ErrNoEligibleUpstream once none remain.
	weights := policy.DefaultWeights()
	if p.Weights != nil {
		weights = p.Weights()
	}
	primary, err := policy.Select(weights, route.Upstreams, intent, level, temporal)
	if err != nil {
		res := p.errorResult(http.StatusServiceUnavailable, "no eligible upstream", level)
		res.Response.Header.Set("Retry-After", "5")
		return res, nil
	}

	buffered, bufferErr := p.buildBufferedRequest(req, route)

	shadowTriggered := bufferErr == nil && p.shouldShadow(route)
	quantumWanted := bufferErr == nil &&
		level >= liminal.Vigilant &&
		route.Quantum.Enabled &&
		route.HedgeEligible(req.Method)

	var rankedForHedge []*upstream.Upstream
	if quantumWanted {
		rankedForHedge, _ = policy.Rank(weights, route.Upstreams, intent, level, temporal)
		quantumWanted = len(rankedForHedge) >= 2
	}

	var compareCh chan int
	if shadowTriggered && route.Shadow.Mode == upstream.ShadowCompare {
		compareCh = make(chan int, 1)
	}
	if shadowTriggered {
		p.dispatchShadow(route, buffered, compareCh)
	}

	var resp *Response
	var winner *upstream.Upstream
	var elapsed time.Duration

	deadline := route.EffectiveDeadline()
	attemptCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	start := time.Now()
	if quantumWanted {
		resp, winner, err = p.dispatchQuantum(attemptCtx, route, rankedForHedge, buffered)
	} else {
		winner = primary
		resp, err = p.forward(attemptCtx, primary, buffered)
		if isDialError(err) {
			// §7: a dial failure is retried at most once against a
			// different eligible upstream before giving up.
			p.recordTerminal(route, winner, time.Since(start), false)
			if retryTarget := pickRetryTarget(rankedFor(route, weights, intent, level, temporal), primary); retryTarget != nil {
				winner = retryTarget
				resp, err = p.forward(attemptCtx, retryTarget, buffered)
			}
		}
	}
	elapsed = time.Since(start)

	if err != nil {
		if attemptCtx.Err() != nil {
			// Step 9: timeout -> zone fallback.
			band := zoneBandFor(route, elapsed, deadline)
			p.recordTerminal(route, winner, elapsed, false)
			return p.zoneFallbackResult(band, level), nil
		}
		p.recordTerminal(route, winner, elapsed, false)
		return p.errorResult(http.StatusBadGateway, "upstream error", level), nil
	}

	if compareCh != nil {
		compareCh <- resp.StatusCode
	}

	if p.FilterChain != nil {
		if filtered, ferr := p.FilterChain.ProcessResponse(ctx, resp); ferr == nil {
			resp = filtered
		}
	}

	success := resp.StatusCode < 500
	p.recordTerminal(route, winner, elapsed, success)

	return &Result{
		Response:     resp,
		UpstreamName: winner.Name,
		Level:        level,
		Shadowed:     shadowTriggered,
	}, nil
}

func (p *Pipeline) classify(h http.Header) (string, bool) {
	if p.IntentClassifier == nil {
		return "", false
	}
	return p.IntentClassifier.Classify(h)
}

func (p *Pipeline) shouldShadow(route *upstream.Route) bool {
	if !route.Shadow.Enabled || route.Shadow.ShadowUpstream == "" {
		return false
	}
	return p.random() < route.Shadow.Rate
}

func (p *Pipeline) random() float64 {
	if p.Rand != nil {
		return p.Rand.Float64()
	}
	return rand.Float64()
}

func isDialError(err error) bool {
	var dialErr *UpstreamDialError
	return errors.As(err, &dialErr)
}

// rankedFor is a thin errors-swallowed wrapper around policy.Rank for the
// dial-retry path, where "no other eligible upstream" just means the
// retry is skipped.
func rankedFor(route *upstream.Route, w policy.Weights, intent string, level liminal.ConsciousnessLevel, temporal liminal.TemporalProfile) []*upstream.Upstream {
	ranked, err := policy.Rank(w, route.Upstreams, intent, level, temporal)
	if err != nil {
		return nil
	}
	return ranked
}

// pickRetryTarget returns the highest-ranked candidate other than
// exclude, or nil if none remains.
func pickRetryTarget(ranked []*upstream.Upstream, exclude *upstream.Upstream) *upstream.Upstream {
	for _, u := range ranked {
		if u != exclude {
			return u
		}
	}
	return nil
}

func (p *Pipeline) forward(ctx context.Context, u *upstream.Upstream, req *BufferedRequest) (*Response, error) {
	client, err := p.Pool.ClientFor(u.URL)
	if err != nil {
		return nil, &UpstreamDialError{Upstream: u.Name, Cause: err}
	}
	return client.Send(ctx, req)
}

func (p *Pipeline) recordTerminal(route *upstream.Route, u *upstream.Upstream, latency time.Duration, success bool) {
	if u == nil {
		return
	}
	p.Registry.Record(u, latency, success)
	status := http.StatusOK
	if !success {
		status = http.StatusBadGateway
	}
	p.Controller.RecordEcho(route.Name, status, latency)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) ritualNotReadyResult(retryAfter time.Duration) *Result {
	res := p.errorResult(http.StatusServiceUnavailable, "gateway not yet in production", liminal.Dormant)
	res.Response.Header.Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	return res
}

func (p *Pipeline) errorResult(status int, body string, level liminal.ConsciousnessLevel) *Result {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return &Result{
		Response: &Response{
			StatusCode: status,
			Header:     h,
			Body:       []byte(body),
		},
		Level: level,
	}
}
