package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"dao-gateway/core/pkg/pool"
	"dao-gateway/core/pkg/upstream"
)

// RegistryRouteMatcher adapts *upstream.Registry to RouteMatcher.
type RegistryRouteMatcher struct {
	Registry *upstream.Registry
}

func (m RegistryRouteMatcher) Match(host, path string) (*upstream.Route, bool) {
	return m.Registry.GetRoute(host, path)
}

// HeaderIntentClassifier reads the intent tag from a fixed request
// header, the minimal collaborator the core needs; a real deployment
// may supply a smarter classifier.
type HeaderIntentClassifier struct {
	HeaderName string
}

// DefaultIntentHeader is the header HeaderIntentClassifier reads when
// none is configured.
const DefaultIntentHeader = "X-Dao-Intent"

func (c HeaderIntentClassifier) Classify(headers http.Header) (string, bool) {
	name := c.HeaderName
	if name == "" {
		name = DefaultIntentHeader
	}
	v := headers.Get(name)
	return v, v != ""
}

// PoolConnectionPool adapts *pool.Pool (which speaks *http.Request /
// *http.Response) to the pipeline's BufferedRequest / Response
// collaborator contract.
type PoolConnectionPool struct {
	Pool *pool.Pool
}

func (p PoolConnectionPool) ClientFor(url string) (Client, error) {
	c, err := p.Pool.ClientFor(url)
	if err != nil {
		return nil, err
	}
	return poolClient{url: url, client: c}, nil
}

type poolClient struct {
	url    string
	client pool.Client
}

func (c poolClient) Send(ctx context.Context, req *BufferedRequest) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url, body)
	if err != nil {
		return nil, &UpstreamDialError{Upstream: c.url, Cause: err}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Host = req.Host

	resp, err := c.client.Send(ctx, httpReq)
	if err != nil {
		return nil, &UpstreamIOError{Upstream: c.url, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamIOError{Upstream: c.url, Cause: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
