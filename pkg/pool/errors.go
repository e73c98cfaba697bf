package pool

import "errors"

// ErrAtCapacity is returned by Client.Send when the upstream's
// concurrency cap has no free permit.
var ErrAtCapacity = errors.New("pool: upstream at concurrency capacity")
