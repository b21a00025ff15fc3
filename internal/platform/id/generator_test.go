package id

import (
	"regexp"
	"testing"
	"time"
)

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := &RandomGenerator{now: func() time.Time {
		return time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("x", 7*3600))
	}}

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	pattern := regexp.MustCompile(`^20260301T023000-[0-9a-f]{8}$`)
	if !pattern.MatchString(first) {
		t.Fatalf("unexpected id format: %s", first)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got=%s twice", first)
	}
}
