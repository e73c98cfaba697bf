package policy

// Weights is the triple of non-negative Aligner weights, always kept
// normalized to sum to 1. The zero value is invalid; use NewWeights or
// DefaultWeights.
type Weights struct {
	WLoad   float64
	WIntent float64
	WTempo  float64
}

// DefaultWeights matches the configuration schema's default policy:
// 0.5/0.3/0.2.
func DefaultWeights() Weights {
	return Weights{WLoad: 0.5, WIntent: 0.3, WTempo: 0.2}
}

// NewWeights builds a Weights from the three raw values, normalizing
// them to sum to 1. If all three are zero, it returns DefaultWeights.
func NewWeights(wLoad, wIntent, wTempo float64) Weights {
	w := Weights{WLoad: wLoad, WIntent: wIntent, WTempo: wTempo}
	w.normalize()
	return w
}

// normalize rescales the weights to sum to 1, falling back to
// DefaultWeights when all three are zero or negative.
func (w *Weights) normalize() {
	sum := w.WLoad + w.WIntent + w.WTempo
	if sum <= 0 {
		*w = DefaultWeights()
		return
	}
	w.WLoad /= sum
	w.WIntent /= sum
	w.WTempo /= sum
}

// vigilantBoost is the multiplier applied to WIntent and WTempo once
// the gateway's consciousness level reaches Vigilant, biasing selection
// away from loaded or slow upstreams under stress.
const vigilantBoost = 1.5

// reweightForLevel returns the weights to use for a selection made at
// the given consciousness level: unchanged below Vigilant, with
// WIntent and WTempo boosted and renormalized at Vigilant and above.
func (w Weights) reweightForLevel(atOrAboveVigilant bool) Weights {
	if !atOrAboveVigilant {
		return w
	}
	boosted := Weights{
		WLoad:   w.WLoad,
		WIntent: w.WIntent * vigilantBoost,
		WTempo:  w.WTempo * vigilantBoost,
	}
	boosted.normalize()
	return boosted
}
