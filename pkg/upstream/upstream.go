package upstream

import (
	"errors"
	"fmt"
)

// ErrInvalidWeight is returned when an upstream is constructed with weight < 1.
var ErrInvalidWeight = errors.New("upstream: weight must be >= 1")

// Upstream is a single backend a route can forward to. Identity is the
// (Name, URL) pair; Name must be unique within a Route.
type Upstream struct {
	Name    string
	URL     string
	Intents map[string]struct{}
	Weight  uint

	Stats    *Stats
	Presence *PresenceDetector
}

// Config describes the static, declared shape of an upstream as loaded
// from configuration, before Stats/Presence are attached.
type Config struct {
	Name    string
	URL     string
	Intents []string
	Weight  uint
}

// New builds an Upstream from a Config, attaching fresh Stats and a
// PresenceDetector configured with pc. Weight must be >= 1.
func New(cfg Config, pc PresenceConfig) (*Upstream, error) {
	if cfg.Weight < 1 {
		return nil, fmt.Errorf("upstream %q: %w", cfg.Name, ErrInvalidWeight)
	}
	intents := make(map[string]struct{}, len(cfg.Intents))
	for _, in := range cfg.Intents {
		intents[in] = struct{}{}
	}
	return &Upstream{
		Name:     cfg.Name,
		URL:      cfg.URL,
		Intents:  intents,
		Weight:   cfg.Weight,
		Stats:    NewStats(),
		Presence: NewPresenceDetector(pc),
	}, nil
}

// HasIntent reports whether this upstream declares the given intent tag.
func (u *Upstream) HasIntent(intent string) bool {
	if intent == "" {
		return true
	}
	_, ok := u.Intents[intent]
	return ok
}
