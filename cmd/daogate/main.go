// daogate is an adaptive Layer-7 reverse proxy that forwards HTTP
// traffic to upstream servers and continuously adjusts its own routing
// behavior through a family of liminal subsystems: consciousness
// levels, presence detection, temporal profiles, echo analysis,
// liminal-zone timeout responses, shadow traffic duplication, and
// quantum (hedged) routing.
//
// Usage:
//
//	# Start the gateway with default configuration
//	daogate run
//
//	# Start with a custom configuration file
//	daogate run --config /path/to/config.yaml
//
//	# Show version information
//	daogate version
package main

func main() {
	Execute()
}
