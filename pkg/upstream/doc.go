// Package upstream owns upstream identity, rolling stats, and per-upstream
// presence classification. Upstreams are exclusively mutated through the
// Registry; callers outside this package hold only short-lived read
// references bounded by a single request's lifetime.
package upstream
