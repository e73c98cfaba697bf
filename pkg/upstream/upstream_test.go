package upstream

import "testing"

func TestNewRejectsZeroWeight(t *testing.T) {
	_, err := New(Config{Name: "a", URL: "http://a", Weight: 0}, DefaultPresenceConfig())
	if err == nil {
		t.Fatal("expected error for weight 0")
	}
}

func TestHasIntent(t *testing.T) {
	u, err := New(Config{Name: "a", URL: "http://a", Weight: 1, Intents: []string{"chat"}}, DefaultPresenceConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !u.HasIntent("chat") {
		t.Fatal("expected HasIntent(chat) true")
	}
	if u.HasIntent("batch") {
		t.Fatal("expected HasIntent(batch) false")
	}
	if !u.HasIntent("") {
		t.Fatal("empty intent should match any upstream")
	}
}
