package policy

import (
	"sort"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/upstream"
)

// Select scores every eligible candidate and returns the winner.
//
//	score(u) = w_load   * (1 - normalized_load(u))
//	         + w_intent * intent_match(u, intent)
//	         + w_tempo  * tempo_match(u, temporal)
//
// normalized_load(u) is u's current RPS divided by the highest current
// RPS among eligible candidates, clamped to [0, 1]. intent_match is 1
// when intent is empty or declared on u, else 0. tempo_match is 1 when
// u's median-latency bucket, computed relative to the candidate set,
// matches temporal, else 0.5.
//
// At Vigilant and above, w_intent and w_tempo are boosted 1.5x and the
// triple renormalized before scoring. Ties break first by weight
// descending, then by name ascending, so two calls with identical
// inputs always choose the same upstream.
//
// Candidates whose presence is Absent or Unknown are never selected;
// if none remain eligible, Select returns ErrNoEligibleUpstream.
func Select(w Weights, candidates []*upstream.Upstream, intent string, level liminal.ConsciousnessLevel, temporal liminal.TemporalProfile) (*upstream.Upstream, error) {
	ranked, err := Rank(w, candidates, intent, level, temporal)
	if err != nil {
		return nil, err
	}
	return ranked[0], nil
}

// Rank scores every eligible candidate and returns them in the same
// strict score-desc/weight-desc/name-asc order Select uses to pick a
// single winner. Quantum hedging uses this to pick the top-factor
// upstreams to dispatch to concurrently.
func Rank(w Weights, candidates []*upstream.Upstream, intent string, level liminal.ConsciousnessLevel, temporal liminal.TemporalProfile) ([]*upstream.Upstream, error) {
	eligible := filterEligible(candidates)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleUpstream
	}

	weights := w.reweightForLevel(level >= liminal.Vigilant)
	maxRPS := maxCurrentRPS(eligible)
	medianP50 := medianP50(eligible)

	scores := make(map[*upstream.Upstream]float64, len(eligible))
	for _, u := range eligible {
		scores[u] = weights.WLoad*(1-normalizedLoad(u, maxRPS)) +
			weights.WIntent*intentMatch(u, intent) +
			weights.WTempo*tempoMatch(u, medianP50, temporal)
	}

	ranked := append([]*upstream.Upstream{}, eligible...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		return better(a, scores[a], b, scores[b])
	})
	return ranked, nil
}

func filterEligible(candidates []*upstream.Upstream) []*upstream.Upstream {
	out := make([]*upstream.Upstream, 0, len(candidates))
	for _, u := range candidates {
		if u == nil {
			continue
		}
		if u.Presence.CanSendTraffic() {
			out = append(out, u)
		}
	}
	return out
}

// better reports whether candidate (score) should replace incumbent
// (bestScore) under the strict score-desc, weight-desc, name-asc
// ordering.
func better(candidate *upstream.Upstream, score float64, incumbent *upstream.Upstream, bestScore float64) bool {
	if score != bestScore {
		return score > bestScore
	}
	if candidate.Weight != incumbent.Weight {
		return candidate.Weight > incumbent.Weight
	}
	return candidate.Name < incumbent.Name
}

func maxCurrentRPS(candidates []*upstream.Upstream) float64 {
	var max float64
	for _, u := range candidates {
		if rps := u.Stats.CurrentRPS(); rps > max {
			max = rps
		}
	}
	return max
}

func normalizedLoad(u *upstream.Upstream, maxRPS float64) float64 {
	if maxRPS <= 0 {
		return 0
	}
	v := u.Stats.CurrentRPS() / maxRPS
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func intentMatch(u *upstream.Upstream, intent string) float64 {
	if u.HasIntent(intent) {
		return 1
	}
	return 0
}

// medianTempoSpread is how far (as a fraction of the candidate-set
// median p50) an upstream's own p50 must sit to be bucketed Fast or
// Slow rather than Medium.
const medianTempoSpread = 0.25

func medianP50(candidates []*upstream.Upstream) float64 {
	vals := make([]float64, len(candidates))
	for i, u := range candidates {
		vals[i] = u.Stats.P50()
	}
	sort.Float64s(vals)
	n := len(vals)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// bucketLatency classifies an upstream's own p50 against the
// candidate-set median, the same relative shape normalized_load uses
// against the candidate-set max.
func bucketLatency(p50, medianP50 float64) liminal.TemporalProfile {
	if medianP50 <= 0 {
		return liminal.Medium
	}
	switch {
	case p50 < (1-medianTempoSpread)*medianP50:
		return liminal.Fast
	case p50 > (1+medianTempoSpread)*medianP50:
		return liminal.Slow
	default:
		return liminal.Medium
	}
}

func tempoMatch(u *upstream.Upstream, medianP50 float64, temporal liminal.TemporalProfile) float64 {
	if bucketLatency(u.Stats.P50(), medianP50) == temporal {
		return 1
	}
	return 0.5
}
