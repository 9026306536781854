package id

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGenerator_NewID(t *testing.T) {
	gen := NewULIDGenerator()

	first := gen.NewID()
	second := gen.NewID()
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if _, err := ulid.ParseStrict(first); err != nil {
		t.Fatalf("expected a valid ulid, got %q: %v", first, err)
	}
	if first > second {
		t.Fatalf("expected monotonic ids: %s > %s", first, second)
	}
}
