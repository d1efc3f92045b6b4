package id

import (
	"strings"
	"testing"
)

func TestNewID32_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		s := NewID32()
		if len(s) != 32 {
			t.Fatalf("length = %d, want 32 (%q)", len(s), s)
		}
		if !Valid32(s) {
			t.Fatalf("NewID32 produced invalid id %q", s)
		}
		if seen[s] {
			t.Fatalf("duplicate id %q", s)
		}
		seen[s] = true
	}
}

func TestValid32(t *testing.T) {
	if !Valid32(strings.Repeat("a", 32)) {
		t.Fatal("expected valid")
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32), // uppercase
		strings.Repeat("a", 31),
		strings.Repeat("a", 33),
		strings.Repeat("g", 32), // non-hex
	} {
		if Valid32(s) {
			t.Fatalf("expected invalid for %q", s)
		}
	}
}
