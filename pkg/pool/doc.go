// Package pool is the default in-process connection pool: one
// *http.Client per upstream URL, gated by a per-upstream concurrency
// cap, with idle entries swept away after a configurable timeout.
package pool
