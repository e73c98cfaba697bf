package pool

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Client sends one request to a fixed upstream. Implemented here by
// boundClient; pkg/pipeline adapts it to its own collaborator contract.
type Client interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// boundClient is a *http.Client bound to one upstream URL, gated by a
// concurrency semaphore and tracking its own last-used time for idle
// eviction.
type boundClient struct {
	url string

	httpClient *http.Client
	sem        *semaphore

	mu       sync.Mutex
	lastUsed time.Time
}

func newBoundClient(url string, transport http.RoundTripper, requestTimeout time.Duration, maxConcurrent int64) *boundClient {
	return &boundClient{
		url: url,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		sem:      newSemaphore(maxConcurrent),
		lastUsed: time.Now(),
	}
}

// Send acquires a concurrency permit, issues the request, and releases
// the permit before returning.
func (c *boundClient) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if !c.sem.tryAcquire() {
		return nil, ErrAtCapacity
	}
	defer c.sem.release()

	c.touch()
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	c.touch()
	return resp, err
}

func (c *boundClient) touch() {
	c.mu.Lock()
	c.lastUsed = time.Now()
	c.mu.Unlock()
}

func (c *boundClient) idleFor(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastUsed)
}

func (c *boundClient) inUse() int64 {
	return c.sem.inUse()
}
