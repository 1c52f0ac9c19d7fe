package stripewebhook

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	keys   map[string]bool
	setErr error
}

func newFakeStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: map[string]bool{}}
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "osf:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
	}
	return nil
}

func TestIdempotencyGuardMarksFirstDelivery(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeStore(), time.Hour, "stripe")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if seen {
		t.Fatal("first delivery must not be marked seen")
	}

	seen, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !seen {
		t.Fatal("second delivery must be marked seen")
	}
}

func TestIdempotencyGuardDeleteReleasesMark(t *testing.T) {
	guard, _ := NewIdempotencyGuard(newFakeStore(), time.Hour, "stripe")

	if _, err := guard.CheckAndMark(context.Background(), "evt_1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := guard.Delete(context.Background(), "evt_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if seen {
		t.Fatal("released event must be processable again")
	}
}

func TestIdempotencyGuardPropagatesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("redis down")
	guard, _ := NewIdempotencyGuard(store, time.Hour, "stripe")

	if _, err := guard.CheckAndMark(context.Background(), "evt_1"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestIdempotencyGuardValidatesInputs(t *testing.T) {
	if _, err := NewIdempotencyGuard(nil, time.Hour, "stripe"); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewIdempotencyGuard(newFakeStore(), time.Hour, ""); err == nil {
		t.Fatal("expected error for empty scope")
	}
	guard, _ := NewIdempotencyGuard(newFakeStore(), time.Hour, "stripe")
	if _, err := guard.CheckAndMark(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty event id")
	}
}
