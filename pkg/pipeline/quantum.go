package pipeline

import (
	"context"
	"time"

	"dao-gateway/core/pkg/upstream"
)

type hedgeAttempt struct {
	u        *upstream.Upstream
	resp     *Response
	err      error
	elapsed  time.Duration
}

// dispatchQuantum hedges a request across the top Quantum.Factor ranked
// candidates, collapsing per route.Quantum.Collapse. Cancelled losers are
// recorded with RecordCancelled, never RecordEcho/Record: a cancellation
// carries no success/failure signal.
func (p *Pipeline) dispatchQuantum(ctx context.Context, route *upstream.Route, ranked []*upstream.Upstream, buffered *BufferedRequest) (*Response, *upstream.Upstream, error) {
	factor := route.Quantum.Factor
	if factor < 2 {
		factor = 2
	}
	if factor > len(ranked) {
		factor = len(ranked)
	}
	candidates := ranked[:factor]

	results := make(chan hedgeAttempt, len(candidates))
	attemptCtx, cancel := context.WithTimeout(ctx, route.Quantum.HedgeTimeout)
	defer cancel()

	for _, u := range candidates {
		u := u
		go func() {
			clone := buffered.Clone()
			start := time.Now()
			resp, err := p.forward(attemptCtx, u, clone)
			results <- hedgeAttempt{u: u, resp: resp, err: err, elapsed: time.Since(start)}
		}()
	}

	collected := make([]hedgeAttempt, 0, len(candidates))
	var winner *hedgeAttempt

	for i := 0; i < len(candidates); i++ {
		a := <-results
		collected = append(collected, a)

		succeeded := a.err == nil && a.resp != nil && a.resp.StatusCode < 500

		switch route.Quantum.Collapse {
		case upstream.FirstAny:
			if winner == nil {
				winner = &collected[len(collected)-1]
			}
		case upstream.FastestOfN:
			// keep draining; fastest is picked after the loop.
		default: // FirstSuccess
			if winner == nil && succeeded {
				winner = &collected[len(collected)-1]
			}
		}
		if winner != nil && route.Quantum.Collapse != upstream.FastestOfN {
			break
		}
	}

	if route.Quantum.Collapse == upstream.FastestOfN {
		for i := range collected {
			if collected[i].err != nil || collected[i].resp == nil || collected[i].resp.StatusCode >= 500 {
				continue
			}
			if winner == nil || collected[i].elapsed < winner.elapsed {
				winner = &collected[i]
			}
		}
	}

	if winner == nil {
		for _, a := range collected {
			if a.u != nil {
				p.Registry.RecordCancelled(a.u, a.elapsed)
			}
		}
		return nil, nil, &QuantumAllFailedError{Route: route.Name, Attempts: len(candidates)}
	}

	cancel()
	go p.drainHedgeLosers(results, len(candidates)-len(collected), winner.u)
	for _, a := range collected {
		if a.u != winner.u {
			p.Registry.RecordCancelled(a.u, a.elapsed)
		}
	}

	if winner.err != nil {
		// FirstAny collapsed on an errored attempt: propagate it so the
		// caller's normal upstream-error handling takes over.
		return nil, winner.u, winner.err
	}
	return winner.resp, winner.u, nil
}

// drainHedgeLosers consumes the remaining in-flight attempts after a
// winner has already been returned, so their goroutines don't leak, and
// records each as cancelled rather than succeeded or failed.
func (p *Pipeline) drainHedgeLosers(results chan hedgeAttempt, remaining int, winner *upstream.Upstream) {
	for i := 0; i < remaining; i++ {
		a := <-results
		if a.u != nil && a.u != winner {
			p.Registry.RecordCancelled(a.u, a.elapsed)
		}
	}
}
