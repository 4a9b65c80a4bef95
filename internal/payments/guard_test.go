package payments

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	keys   map[string]struct{}
	setErr error
}

func (s *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setErr != nil {
		return false, s.setErr
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *fakeStore) IdempotencyKey(scope, id string) string {
	return "dk:idempotency:" + scope + ":" + id
}

func (s *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func TestCheckAndMarkDeduplicates(t *testing.T) {
	store := &fakeStore{keys: make(map[string]struct{})}
	guard, err := NewReplayGuard(store, time.Hour)
	if err != nil {
		t.Fatalf("NewReplayGuard: %v", err)
	}

	first, err := guard.CheckAndMark(context.Background(), "DK-4001")
	if err != nil || !first {
		t.Fatalf("first delivery = (%v, %v), want (true, nil)", first, err)
	}
	second, err := guard.CheckAndMark(context.Background(), "DK-4001")
	if err != nil || second {
		t.Fatalf("replay = (%v, %v), want (false, nil)", second, err)
	}
}

func TestCheckAndMarkFailsOpen(t *testing.T) {
	store := &fakeStore{keys: make(map[string]struct{}), setErr: errors.New("redis down")}
	guard, err := NewReplayGuard(store, time.Hour)
	if err != nil {
		t.Fatalf("NewReplayGuard: %v", err)
	}

	first, err := guard.CheckAndMark(context.Background(), "DK-4002")
	if !first {
		t.Error("unreachable redis must not block processing")
	}
	if err == nil {
		t.Error("error should still be reported for logging")
	}
}

func TestReleaseAllowsRetry(t *testing.T) {
	store := &fakeStore{keys: make(map[string]struct{})}
	guard, _ := NewReplayGuard(store, time.Hour)

	if _, err := guard.CheckAndMark(context.Background(), "DK-4003"); err != nil {
		t.Fatalf("CheckAndMark: %v", err)
	}
	if err := guard.Release(context.Background(), "DK-4003"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	first, err := guard.CheckAndMark(context.Background(), "DK-4003")
	if err != nil || !first {
		t.Fatalf("after release = (%v, %v), want (true, nil)", first, err)
	}
}
