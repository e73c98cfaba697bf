// Package pipeline is the request-handling orchestrator: ritual gate,
// route match, presence filter, policy alignment, optional body
// buffering, shadow dispatch, forward-or-hedge, timeout/zone fallback,
// and post-hoc recording into the registry and liminal controller.
package pipeline
