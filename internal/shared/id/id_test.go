package id

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestNewTabID(t *testing.T) {
	a := NewTabID()
	b := NewTabID()

	if !strings.HasPrefix(a, "tab_") {
		t.Errorf("Expected tab_ prefix, got %s", a)
	}
	if a == b {
		t.Error("IDs must be unique")
	}
	if !IsValid(a) || !IsValid(b) {
		t.Error("Generated IDs must validate")
	}
}

func TestGeneratedIDsSort(t *testing.T) {
	first := NewTabID()
	time.Sleep(2 * time.Millisecond)
	second := NewTabID()

	if first >= second {
		t.Errorf("IDs must sort by creation time: %s >= %s", first, second)
	}
}

func TestDeterministicEntropy(t *testing.T) {
	gen := NewGeneratorWithEntropy(rand.New(rand.NewSource(7)))
	a := gen.GenerateWithPrefix(TabPrefix)
	b := gen.GenerateWithPrefix(TabPrefix)
	if a == b {
		t.Error("Sequential IDs must differ even with seeded entropy")
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "tab_", "tab_not-a-ulid", "no-separator"} {
		if IsValid(bad) {
			t.Errorf("IsValid(%q) should be false", bad)
		}
	}
}
