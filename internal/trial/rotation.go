package trial

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

// Rotate returns the supplier ids visible under a limited-count rule for the
// given rotation window. The pool is sorted before shuffling so the result
// depends only on (pool membership, windowIndex, limit), not on query order.
// When the pool is smaller than the limit every id is returned.
func Rotate(pool []uuid.UUID, windowIndex int64, limit int) []uuid.UUID {
	if limit <= 0 || len(pool) == 0 {
		return nil
	}

	ordered := make([]uuid.UUID, len(pool))
	copy(ordered, pool)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})

	rng := rand.New(rand.NewSource(windowIndex))
	rng.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})

	if limit >= len(ordered) {
		return ordered
	}
	return ordered[:limit]
}

// Membership builds a lookup set from a rotation result.
func Membership(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
