package pipeline

import (
	"net/http"
	"time"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/upstream"
)

// zoneBandFor looks up the elapsed-ratio band a timed-out attempt falls
// into. elapsed/deadline past 1.0 always matches the unbounded final band.
func zoneBandFor(route *upstream.Route, elapsed, deadline time.Duration) upstream.ZoneBand {
	bands := route.EffectiveZones()
	ratio := 0.0
	if deadline > 0 {
		ratio = float64(elapsed) / float64(deadline)
	}
	for _, b := range bands {
		if ratio < b.Lo {
			continue
		}
		if b.Hi > 0 && ratio >= b.Hi {
			continue
		}
		return b
	}
	return bands[len(bands)-1]
}

// zoneFallbackResult renders a zone band's canned response.
func (p *Pipeline) zoneFallbackResult(band upstream.ZoneBand, level liminal.ConsciousnessLevel) *Result {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return &Result{
		Response: &Response{
			StatusCode: band.StatusCode,
			Header:     h,
			Body:       []byte(band.Body),
		},
		Level: level,
	}
}
