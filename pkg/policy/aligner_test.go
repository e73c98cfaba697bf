package policy

import (
	"testing"
	"time"

	"dao-gateway/core/pkg/liminal"
	"dao-gateway/core/pkg/upstream"
)

func newPresentUpstream(t *testing.T, name string, weight uint, intents []string) *upstream.Upstream {
	t.Helper()
	u, err := upstream.New(upstream.Config{Name: name, URL: "http://" + name, Intents: intents, Weight: weight}, upstream.DefaultPresenceConfig())
	if err != nil {
		t.Fatalf("upstream.New(%q) error = %v", name, err)
	}
	for i := 0; i < 20; i++ {
		u.Presence.RecordOutcome(true)
	}
	return u
}

func TestSelectReturnsErrorWhenNoCandidates(t *testing.T) {
	_, err := Select(DefaultWeights(), nil, "", liminal.Dormant, liminal.Medium)
	if err != ErrNoEligibleUpstream {
		t.Fatalf("Select() error = %v, want ErrNoEligibleUpstream", err)
	}
}

func TestSelectExcludesAbsentAndUnknown(t *testing.T) {
	unknown, err := upstream.New(upstream.Config{Name: "fresh", URL: "http://fresh", Weight: 1}, upstream.DefaultPresenceConfig())
	if err != nil {
		t.Fatalf("upstream.New() error = %v", err)
	}
	present := newPresentUpstream(t, "present", 1, nil)

	got, err := Select(DefaultWeights(), []*upstream.Upstream{unknown, present}, "", liminal.Dormant, liminal.Medium)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != present {
		t.Fatalf("Select() = %v, want the only present candidate", got.Name)
	}
}

func TestSelectPrefersLowerLoadWhenLoadIsTheOnlyWeight(t *testing.T) {
	busy := newPresentUpstream(t, "busy", 1, nil)
	idle := newPresentUpstream(t, "idle", 1, nil)

	for i := 0; i < 10; i++ {
		busy.Stats.Record(5*time.Millisecond, true)
	}
	idle.Stats.Record(5 * time.Millisecond, true)

	w := Weights{WLoad: 1, WIntent: 0, WTempo: 0}
	got, err := Select(w, []*upstream.Upstream{busy, idle}, "", liminal.Dormant, liminal.Medium)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != idle {
		t.Fatalf("Select() = %q, want idle upstream under a pure load weight", got.Name)
	}
}

func TestSelectPrefersIntentMatch(t *testing.T) {
	matches := newPresentUpstream(t, "matches", 1, []string{"summarize"})
	other := newPresentUpstream(t, "other", 1, []string{"translate"})

	w := Weights{WLoad: 0, WIntent: 1, WTempo: 0}
	got, err := Select(w, []*upstream.Upstream{other, matches}, "summarize", liminal.Dormant, liminal.Medium)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != matches {
		t.Fatalf("Select() = %q, want the upstream declaring the requested intent", got.Name)
	}
}

func TestSelectEmptyIntentTreatedAsMatchForEveryCandidate(t *testing.T) {
	a := newPresentUpstream(t, "a", 1, []string{"summarize"})
	b := newPresentUpstream(t, "b", 2, nil)

	w := Weights{WLoad: 0, WIntent: 1, WTempo: 0}
	got, err := Select(w, []*upstream.Upstream{a, b}, "", liminal.Dormant, liminal.Medium)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	// Both score 1 on intent_match with no other weight in play; weight
	// descending breaks the tie.
	if got != b {
		t.Fatalf("Select() = %q, want b (higher weight breaks the score tie)", got.Name)
	}
}

func TestSelectTieBreaksByWeightThenName(t *testing.T) {
	a := newPresentUpstream(t, "alpha", 5, nil)
	b := newPresentUpstream(t, "beta", 5, nil)
	c := newPresentUpstream(t, "zeta", 1, nil)

	got, err := Select(DefaultWeights(), []*upstream.Upstream{c, b, a}, "", liminal.Dormant, liminal.Medium)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	// a and b tie on weight (5) and score (identical idle candidates);
	// name ascending picks alpha over beta. c has lower weight and loses
	// outright.
	if got != a {
		t.Fatalf("Select() = %q, want alpha (name breaks the weight tie)", got.Name)
	}
}

func TestSelectIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	a := newPresentUpstream(t, "a", 3, []string{"x"})
	b := newPresentUpstream(t, "b", 3, []string{"x"})
	candidates := []*upstream.Upstream{a, b}

	first, err := Select(DefaultWeights(), candidates, "x", liminal.Vigilant, liminal.Fast)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := Select(DefaultWeights(), candidates, "x", liminal.Vigilant, liminal.Fast)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if got != first {
			t.Fatal("Select() should be deterministic for identical inputs")
		}
	}
}
