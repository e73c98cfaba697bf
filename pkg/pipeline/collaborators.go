package pipeline

import (
	"context"
	"net/http"

	"dao-gateway/core/pkg/upstream"
)

// RouteMatcher resolves a host/path pair to a Route. The default
// implementation is upstream.Registry.GetRoute.
type RouteMatcher interface {
	Match(host, path string) (*upstream.Route, bool)
}

// IntentClassifier infers an intent tag from request headers. Absence
// is reported with ok == false, which Select and the Aligner treat as
// "match anything".
type IntentClassifier interface {
	Classify(headers http.Header) (intent string, ok bool)
}

// FilterChain is the WASM filter-chain collaborator: request/response
// transforms applied before forwarding and after the upstream replies.
type FilterChain interface {
	ProcessRequest(ctx context.Context, req *BufferedRequest) (*BufferedRequest, error)
	ProcessResponse(ctx context.Context, resp *Response) (*Response, error)
}

// Client sends one buffered request to the upstream it is bound to.
type Client interface {
	Send(ctx context.Context, req *BufferedRequest) (*Response, error)
}

// ConnectionPool resolves an upstream URL to a Client.
type ConnectionPool interface {
	ClientFor(url string) (Client, error)
}
