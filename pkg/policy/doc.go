// Package policy implements the Aligner: the scoring function that
// picks which upstream handles a request given the current policy
// weights, requested intent, gateway temporal profile, and
// consciousness level.
package policy
