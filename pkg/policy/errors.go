package policy

import "errors"

// ErrNoEligibleUpstream is returned by Select when candidates is empty
// after presence filtering. Callers surface this as a 503 with a
// Retry-After header; it is never produced by an upstream whose
// presence is Absent or Unknown, because Select never considers one.
var ErrNoEligibleUpstream = errors.New("policy: no eligible upstream")
