package pipeline

import (
	"net/http"
	"time"
)

// BufferedRequest is a request whose body has been fully read into
// memory, letting the pipeline clone it for shadow dispatch and
// quantum hedging. Method/URL/Header/Host come from the inbound
// *http.Request; Body is nil unless buffering occurred (step 6).
type BufferedRequest struct {
	Method string
	URL    string
	Host   string
	Header http.Header
	Body   []byte

	ContentLength int64
}

// Clone returns a deep-enough copy for concurrent dispatch: Header and
// Body are copied so one attempt's mutation (e.g. adding
// X-Dao-Shadow) never leaks into another's.
func (r *BufferedRequest) Clone() *BufferedRequest {
	header := make(http.Header, len(r.Header))
	for k, v := range r.Header {
		header[k] = append([]string{}, v...)
	}
	var body []byte
	if r.Body != nil {
		body = append([]byte{}, r.Body...)
	}
	return &BufferedRequest{
		Method:        r.Method,
		URL:           r.URL,
		Host:          r.Host,
		Header:        header,
		Body:          body,
		ContentLength: r.ContentLength,
	}
}

// Response is the pipeline's upstream response representation,
// decoupled from net/http so quantum/shadow bookkeeping never touches
// a live response body more than once.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration
}
