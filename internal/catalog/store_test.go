package catalog

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

func TestStoreLoadLifecycle(t *testing.T) {
	items := sampleItems(t)
	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		return items, nil
	}))

	if s.State() != StateIdle {
		t.Fatalf("expected idle before first load, got %v", s.State())
	}

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("expected ready after load, got %v", s.State())
	}
	if got := s.Items(); len(got) != 2 {
		t.Errorf("expected 2 items in working set, got %d", len(got))
	}
}

func TestStoreLoadFailureThenRetry(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	items := sampleItems(t)

	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		if fail.Load() {
			return nil, errors.New("backend unavailable")
		}
		return items, nil
	}))

	err := s.Load(context.Background())
	if err == nil {
		t.Fatal("expected load error")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if s.State() != StateError {
		t.Fatalf("expected error state, got %v", s.State())
	}
	if len(s.Filtered()) != 0 {
		t.Error("expected empty filtered view after failed load")
	}

	// Manual retry restores the full set.
	fail.Store(false)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("retry Load: %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("expected ready after retry, got %v", s.State())
	}
	if len(s.Items()) != 2 {
		t.Errorf("expected full set restored, got %d items", len(s.Items()))
	}
	if s.Err() != nil {
		t.Errorf("expected cleared error, got %v", s.Err())
	}
}

func TestStoreCoalescesConcurrentLoads(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})

	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		calls.Add(1)
		<-release
		return nil, nil
	}))

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load(context.Background())
		}()
	}

	// Let the goroutines pile up, then release the single fetch.
	for s.State() != StateLoading {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single coalesced fetch, got %d", n)
	}
}

func TestStoreReloadDiscardsStaleLoad(t *testing.T) {
	items := sampleItems(t)
	first := make(chan struct{})
	var calls atomic.Int64

	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		if calls.Add(1) == 1 {
			<-first
			// Stale snapshot that must not win.
			return nil, errors.New("stale backend")
		}
		return items, nil
	}))

	go s.Load(context.Background())
	for s.State() != StateLoading {
		runtime.Gosched()
	}

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background()) }()

	// Wait for the reload's fetch to start, then let the stale one finish.
	for calls.Load() < 2 {
		runtime.Gosched()
	}
	close(first)

	if err := <-done; err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("expected ready after reload, got %v", s.State())
	}
	if len(s.Items()) != 2 {
		t.Errorf("stale load clobbered the reload result: %d items", len(s.Items()))
	}
}

func TestStoreFiltersAndStats(t *testing.T) {
	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		return sampleItems(t), nil
	}))
	s.Load(context.Background())

	s.SetStatusFilter(model.StatusLost)
	filtered := s.Filtered()
	if len(filtered) != 1 || filtered[0].ID != "a" {
		t.Fatalf("expected only item a, got %v", ids(filtered))
	}
	stats := s.Stats()
	if stats.Filtered != 1 || stats.Found != 0 || stats.Lost != 1 {
		t.Errorf("expected stats {1 0 1}, got %+v", stats)
	}
}

func TestStoreClearFiltersRestoresIdentity(t *testing.T) {
	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		return sampleItems(t), nil
	}))
	s.Load(context.Background())

	s.SetStatusFilter(model.StatusFound)
	s.SetCategoryFilter(model.CategoryKeys)
	s.SetDateFrom(date(t, "2024-05-05"))
	s.SetDateTo(date(t, "2024-05-20"))
	s.ClearFilters()

	if !s.Criteria().IsZero() {
		t.Fatalf("expected all criteria reset, got %+v", s.Criteria())
	}
	if len(s.Filtered()) != len(s.Items()) {
		t.Error("expected filtered view to equal working set after clear")
	}
}

func TestStoreSelectionFailsOpen(t *testing.T) {
	s := NewStore(FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		return sampleItems(t), nil
	}))
	s.Load(context.Background())

	s.Select("a")
	if sel := s.Selected(); sel == nil || sel.ID != "a" {
		t.Fatalf("expected item a selected, got %v", sel)
	}

	s.Select("nonexistent-id")
	if sel := s.Selected(); sel != nil {
		t.Errorf("expected no selection for unknown id, got %v", sel)
	}

	s.Select("a")
	s.Deselect()
	if s.Selected() != nil {
		t.Error("expected no selection after Deselect")
	}
}
