package pipeline

import (
	"context"
	"time"

	"dao-gateway/core/pkg/upstream"
)

// shadowHeader marks a cloned request as shadow traffic so upstreams can
// tell it apart from primary traffic.
const shadowHeader = "X-Dao-Shadow"

// dispatchShadow runs the configured shadow mode for one route. Sync mode
// blocks the caller (it is invoked before the primary forward, mirroring
// step 7 preceding step 8); Async and Compare spawn a goroutine and return
// immediately. primaryStatus, when non-nil, is fed the primary response's
// status code once known and is only consulted in Compare mode.
func (p *Pipeline) dispatchShadow(route *upstream.Route, buffered *BufferedRequest, primaryStatus <-chan int) {
	switch route.Shadow.Mode {
	case upstream.ShadowSync:
		_, _ = p.sendShadow(context.Background(), route, buffered)
	case upstream.ShadowCompare:
		go p.compareShadow(route, buffered, primaryStatus)
	default: // Async, and any unrecognized mode defaults to fire-and-forget.
		go func() { _, _ = p.sendShadow(context.Background(), route, buffered) }()
	}
}

func (p *Pipeline) compareShadow(route *upstream.Route, buffered *BufferedRequest, primaryStatus <-chan int) {
	resp, err := p.sendShadow(context.Background(), route, buffered)
	if err != nil {
		return
	}
	var pStatus int
	select {
	case pStatus = <-primaryStatus:
	case <-time.After(route.EffectiveDeadline()):
		return
	}
	if pStatus != resp.StatusCode {
		p.Controller.RecordShadowDiff(route.Name, pStatus, resp.StatusCode)
	}
}

func (p *Pipeline) sendShadow(ctx context.Context, route *upstream.Route, buffered *BufferedRequest) (*Response, error) {
	client, err := p.Pool.ClientFor(route.Shadow.ShadowUpstream)
	if err != nil {
		return nil, err
	}

	shadowCtx, cancel := context.WithTimeout(ctx, route.EffectiveDeadline())
	defer cancel()

	clone := buffered.Clone()
	clone.Header.Set(shadowHeader, "1")

	return client.Send(shadowCtx, clone)
}
