// Package profile implements the gateway's learned-memory facility: a
// ServiceProfile per upstream that records which intents it accepts and
// what load/latency envelope it tolerates, plus a rolling history of
// configuration snapshots that supports rollback after a bad reload.
//
// Profiles and snapshots live in an in-memory Memory guarded by a mutex;
// snapshots are additionally persisted through a pluggable SnapshotStore
// backed by SQLite, either the pure-Go modernc.org/sqlite driver (the
// default) or, behind the cgosqlite build tag, the cgo mattn/go-sqlite3
// driver.
package profile
