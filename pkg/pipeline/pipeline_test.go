package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/upstream"
)

type fakeRouteMatcher struct {
	route *upstream.Route
	ok    bool
}

func (f fakeRouteMatcher) Match(host, path string) (*upstream.Route, bool) {
	return f.route, f.ok
}

type fakeClient struct {
	resp  *Response
	err   error
	delay time.Duration
}

func (f fakeClient) Send(ctx context.Context, req *BufferedRequest) (*Response, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakePool struct {
	clients map[string]Client
	err     error
}

func (f fakePool) ClientFor(url string) (Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.clients[url]
	if !ok {
		return nil, errors.New("no client for " + url)
	}
	return c, nil
}

func presentUpstream(t *testing.T, name, url string, weight uint) *upstream.Upstream {
	t.Helper()
	u, err := upstream.New(upstream.Config{Name: name, URL: url, Weight: weight}, upstream.PresenceConfig{})
	if err != nil {
		t.Fatalf("upstream.New: %v", err)
	}
	for i := 0; i < 20; i++ {
		u.Presence.RecordOutcome(true)
	}
	return u
}

func readyController() *liminal.Controller {
	c := liminal.New(time.Now().Add(-24 * time.Hour))
	for i := 0; i < 10; i++ {
		c.Update(liminal.AwarenessFactors{})
	}
	return c
}

func basePipeline(route *upstream.Route, pool ConnectionPool) *Pipeline {
	return &Pipeline{
		Registry:     upstream.NewRegistry(),
		Controller:   readyController(),
		RouteMatcher: fakeRouteMatcher{route: route, ok: route != nil},
		Pool:         pool,
	}
}

func TestHandleReturnsNoRouteWhenUnmatched(t *testing.T) {
	p := basePipeline(nil, fakePool{})
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)

	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Response.StatusCode)
	}
}

func TestHandleReturnsServiceUnavailableBeforeProductionReady(t *testing.T) {
	route := &upstream.Route{Name: "r", Upstreams: []*upstream.Upstream{}}
	p := basePipeline(route, fakePool{})
	p.Controller = liminal.New(time.Now())

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Response.StatusCode)
	}
	if res.Response.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestHandleForwardsToSelectedUpstream(t *testing.T) {
	up := presentUpstream(t, "one", "http://one.internal", 1)
	route := &upstream.Route{Name: "r", Upstreams: []*upstream.Upstream{up}}
	pool := fakePool{clients: map[string]Client{
		"http://one.internal": fakeClient{resp: &Response{StatusCode: 200, Header: http.Header{}, Body: []byte("ok")}},
	}}
	p := basePipeline(route, pool)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", res.Response.StatusCode)
	}
	if res.UpstreamName != "one" {
		t.Fatalf("upstream = %q, want one", res.UpstreamName)
	}
}

func TestHandleNoEligibleUpstreamReturns503(t *testing.T) {
	route := &upstream.Route{Name: "r", Upstreams: []*upstream.Upstream{}}
	p := basePipeline(route, fakePool{})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Response.StatusCode)
	}
}

func TestHandleTimeoutFallsBackToZoneBand(t *testing.T) {
	up := presentUpstream(t, "slow", "http://slow.internal", 1)
	route := &upstream.Route{
		Name:      "r",
		Upstreams: []*upstream.Upstream{up},
		Deadline:  20 * time.Millisecond,
	}
	pool := fakePool{clients: map[string]Client{
		"http://slow.internal": fakeClient{resp: &Response{StatusCode: 200, Header: http.Header{}}, delay: 200 * time.Millisecond},
	}}
	p := basePipeline(route, pool)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", res.Response.StatusCode)
	}
}

func TestHandleUpstreamIOErrorReturns502(t *testing.T) {
	up := presentUpstream(t, "one", "http://one.internal", 1)
	route := &upstream.Route{Name: "r", Upstreams: []*upstream.Upstream{up}}
	pool := fakePool{clients: map[string]Client{
		"http://one.internal": fakeClient{err: errors.New("boom")},
	}}
	p := basePipeline(route, pool)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", res.Response.StatusCode)
	}
}

func TestHandleRecoversFromPanicInRouteMatcher(t *testing.T) {
	p := &Pipeline{
		Registry:     upstream.NewRegistry(),
		Controller:   readyController(),
		RouteMatcher: panickingMatcher{},
		Pool:         fakePool{},
	}
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Response.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Response.StatusCode)
	}
}

type panickingMatcher struct{}

func (panickingMatcher) Match(host, path string) (*upstream.Route, bool) {
	panic("boom")
}

func TestZoneBandForSelectsBandByElapsedRatio(t *testing.T) {
	route := &upstream.Route{Name: "r"}
	deadline := 100 * time.Millisecond

	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{60 * time.Millisecond, 202},
		{90 * time.Millisecond, 503},
		{150 * time.Millisecond, 504},
	}
	for _, c := range cases {
		band := zoneBandFor(route, c.elapsed, deadline)
		if band.StatusCode != c.want {
			t.Errorf("elapsed=%v: band = %d, want %d", c.elapsed, band.StatusCode, c.want)
		}
	}
}
