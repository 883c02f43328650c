package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected a valid uuid, got %q: %v", first, err)
	}
}

func TestRandomCodeGenerator_NewCode(t *testing.T) {
	gen := NewRandomCodeGenerator()
	code, err := gen.NewCode(6)
	if err != nil {
		t.Fatalf("new code: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("unexpected code length: %d", len(code))
	}
	for _, ch := range code {
		if !strings.ContainsRune(CodeAlphabet, ch) {
			t.Fatalf("code %q contains character outside alphabet: %q", code, ch)
		}
	}

	if _, err := gen.NewCode(0); err == nil {
		t.Fatalf("expected error for zero length")
	}
}
