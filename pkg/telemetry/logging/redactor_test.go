package logging

import (
	"strings"
	"testing"
)

func TestRedactStringBearerToken(t *testing.T) {
	r := NewRedactor()
	got := r.RedactString("Authorization: Bearer sometoken123456")
	if strings.Contains(got, "sometoken123456") {
		t.Fatalf("RedactString() = %q, want token redacted", got)
	}
}

func TestRedactStringAPIKey(t *testing.T) {
	r := NewRedactor()
	got := r.RedactString("key is sk-abcdef1234567890")
	if strings.Contains(got, "sk-abcdef1234567890") {
		t.Fatalf("RedactString() = %q, want key redacted", got)
	}
}

func TestRedactStringLeavesPlainTextAlone(t *testing.T) {
	r := NewRedactor()
	got := r.RedactString("forwarded to upstream payments-b")
	if got != "forwarded to upstream payments-b" {
		t.Fatalf("RedactString() = %q, want unchanged", got)
	}
}

func TestRedactArgsRedactsSensitiveKeys(t *testing.T) {
	r := NewRedactor()
	args := r.RedactArgs("authorization", "Bearer sometoken", "route", "payments")

	if args[1] != "***" {
		t.Errorf("authorization value = %v, want fully redacted", args[1])
	}
	if args[3] != "payments" {
		t.Errorf("route value = %v, want unchanged", args[3])
	}
}

func TestRedactArgsEmpty(t *testing.T) {
	r := NewRedactor()
	if got := r.RedactArgs(); len(got) != 0 {
		t.Fatalf("RedactArgs() = %v, want empty", got)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	cases := map[string]bool{
		"Authorization": true,
		"api_key":       true,
		"password":      true,
		"route":         false,
		"upstream":      false,
	}
	for key, want := range cases {
		if got := isSensitiveKey(key); got != want {
			t.Errorf("isSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}
