package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	store := NewStore[int](time.Minute)
	store.now = func() time.Time { return current }

	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, _ := store.GetOrLoad(context.Background(), "k", loader)
	current = current.Add(30 * time.Second)
	second, _ := store.GetOrLoad(context.Background(), "k", loader)
	if first != 1 || second != 1 {
		t.Fatalf("expected cached value within ttl, got first=%d second=%d", first, second)
	}

	current = current.Add(31 * time.Second)
	third, _ := store.GetOrLoad(context.Background(), "k", loader)
	if third != 2 {
		t.Fatalf("expected reload after ttl, got %d", third)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("database is locked")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected retry after failure, got v=%q err=%v", v, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
