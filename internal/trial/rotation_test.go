package trial

import (
	"testing"

	"github.com/google/uuid"
)

func makePool(n int) []uuid.UUID {
	pool := make([]uuid.UUID, n)
	for i := range pool {
		pool[i] = uuid.New()
	}
	return pool
}

func TestRotateDeterministicPerWindow(t *testing.T) {
	pool := makePool(20)

	first := Rotate(pool, 3, 5)
	second := Rotate(pool, 3, 5)
	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("expected 5 ids, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same window produced different selections at index %d", i)
		}
	}
}

func TestRotateIgnoresPoolOrder(t *testing.T) {
	pool := makePool(12)
	reversed := make([]uuid.UUID, len(pool))
	for i, id := range pool {
		reversed[len(pool)-1-i] = id
	}

	a := Rotate(pool, 7, 4)
	b := Rotate(reversed, 7, 4)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("selection depends on input order")
		}
	}
}

func TestRotateDifferentWindowsDiffer(t *testing.T) {
	pool := makePool(50)

	a := Rotate(pool, 0, 10)
	b := Rotate(pool, 1, 10)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different windows to produce different selections")
	}
}

func TestRotateSmallPoolReturnsAll(t *testing.T) {
	pool := makePool(3)
	got := Rotate(pool, 2, 10)
	if len(got) != 3 {
		t.Fatalf("expected all %d ids, got %d", len(pool), len(got))
	}
	seen := Membership(got)
	for _, id := range pool {
		if _, ok := seen[id]; !ok {
			t.Fatalf("pool id %s missing from selection", id)
		}
	}
}

func TestRotateNoDuplicates(t *testing.T) {
	pool := makePool(30)
	got := Rotate(pool, 11, 30)
	if len(Membership(got)) != len(got) {
		t.Fatal("selection contains duplicate ids")
	}
}

func TestRotateEmptyAndZeroLimit(t *testing.T) {
	if got := Rotate(nil, 0, 5); got != nil {
		t.Fatalf("expected nil for empty pool, got %v", got)
	}
	if got := Rotate(makePool(5), 0, 0); got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}
