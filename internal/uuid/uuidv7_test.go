package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if !IsValid(a) || !IsValid(b) {
		t.Fatalf("expected valid UUIDs, got %q and %q", a, b)
	}
	if a == b {
		t.Fatal("expected distinct identifiers")
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %q", a)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(strings.ToUpper("0191b3a4-6b1e-7c3a-9f1d-2a3b4c5d6e7f"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0191b3a4-6b1e-7c3a-9f1d-2a3b4c5d6e7f" {
		t.Errorf("expected lower-case normalised id, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid id")
	}
}
