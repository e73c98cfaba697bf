package pool

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultIdleTimeout matches spec §5: an upstream's bound client is
// evicted after 90 seconds with no traffic.
const DefaultIdleTimeout = 90 * time.Second

// DefaultMaxConcurrentPerUpstream is the concurrency cap applied when a
// Config does not override it.
const DefaultMaxConcurrentPerUpstream = 64

// DefaultSweepInterval is how often the idle sweep runs.
const DefaultSweepInterval = 30 * time.Second

// DefaultRequestTimeout bounds a single upstream round trip when a
// route does not supply its own deadline.
const DefaultRequestTimeout = 30 * time.Second

// Config configures a Pool.
type Config struct {
	// MaxConcurrentPerUpstream caps in-flight requests to any one
	// upstream URL. Default: 64
	MaxConcurrentPerUpstream int64

	// IdleTimeout is how long a bound client may sit unused before the
	// sweep evicts it. Default: 90s
	IdleTimeout time.Duration

	// SweepInterval is how often the eviction sweep runs. Default: 30s
	SweepInterval time.Duration

	// RequestTimeout bounds a single round trip. Default: 30s
	RequestTimeout time.Duration

	// Transport overrides the RoundTripper every bound client uses.
	// Defaults to http.DefaultTransport.
	Transport http.RoundTripper

	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.MaxConcurrentPerUpstream <= 0 {
		c.MaxConcurrentPerUpstream = DefaultMaxConcurrentPerUpstream
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pool is a keyed-by-URL set of bound clients, each gating its own
// upstream behind a concurrency semaphore. Entries unused for longer
// than IdleTimeout are evicted by a background sweep.
type Pool struct {
	cfg Config

	mu      sync.RWMutex
	clients map[string]*boundClient

	stopCh chan struct{}
	doneCh chan struct{}
}

// New returns a Pool with cfg's fields defaulted where unset. The
// eviction sweep does not run until Start is called.
func New(cfg Config) *Pool {
	cfg.applyDefaults()
	return &Pool{
		cfg:     cfg,
		clients: make(map[string]*boundClient),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// ClientFor returns the bound client for url, creating one on first
// use.
func (p *Pool) ClientFor(url string) (Client, error) {
	p.mu.RLock()
	c, ok := p.clients[url]
	p.mu.RUnlock()
	if ok {
		return c, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[url]; ok {
		return c, nil
	}
	c = newBoundClient(url, p.cfg.Transport, p.cfg.RequestTimeout, p.cfg.MaxConcurrentPerUpstream)
	p.clients[url] = c
	return c, nil
}

// Start launches the idle-eviction sweep. It returns immediately; the
// sweep runs until ctx is cancelled or Stop is called.
func (p *Pool) Start(ctx context.Context) {
	go p.runSweep(ctx)
}

func (p *Pool) runSweep(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.evictIdle()
		}
	}
}

func (p *Pool) evictIdle() {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	for url, c := range p.clients {
		if c.inUse() > 0 {
			continue
		}
		if c.idleFor(now) >= p.cfg.IdleTimeout {
			delete(p.clients, url)
			p.cfg.Logger.Debug("pool: evicted idle upstream client", "url", url)
		}
	}
}

// Stop halts the eviction sweep. Safe to call even if Start was never
// called.
func (p *Pool) Stop() {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}

// Len returns how many upstream URLs currently have a bound client.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}
