package pipeline

import (
	"io"
	"net/http"

	"dao-gateway/core/pkg/upstream"
)

// buildBufferedRequest materializes req's body. The returned error is
// non-nil (BufferTooLargeError) when the body exceeds the route's
// buffering cap; the caller still forwards the materialized request
// single-shot, it just skips the shadow/quantum features that require
// cloning it.
func (p *Pipeline) buildBufferedRequest(req *http.Request, route *upstream.Route) (*BufferedRequest, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, &UpstreamIOError{Upstream: "client", Cause: err}
		}
		body = b
	}

	buffered := &BufferedRequest{
		Method:        req.Method,
		URL:           req.URL.String(),
		Host:          req.Host,
		Header:        req.Header.Clone(),
		Body:          body,
		ContentLength: int64(len(body)),
	}

	maxBytes := route.EffectiveMaxBufferBytes()
	if int64(len(body)) > maxBytes {
		return buffered, &BufferTooLargeError{
			Route:        route.Name,
			ContentLen:   int64(len(body)),
			MaxBufferLen: maxBytes,
		}
	}
	return buffered, nil
}
