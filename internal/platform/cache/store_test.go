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

	store := NewStore[[]string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"4506263", "4506264"}, nil
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
			v, err := store.GetOrLoad(context.Background(), "round:47:3", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 2 {
				errCh <- errors.New("unexpected cached value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatalf("get or load failed: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected loader once, got %d", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	now := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "round:47:1", 10)
	if v, ok := store.Get(context.Background(), "round:47:1"); !ok || v != 10 {
		t.Fatalf("expected fresh entry, got=%d ok=%v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "round:47:1"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read")
	}
}

func TestStore_LoaderErrorNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	wantErr := errors.New("page timeout")
	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 5, nil })
	if err != nil || got != 5 {
		t.Fatalf("expected reload after error: got=%d err=%v", got, err)
	}
}
