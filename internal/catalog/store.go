package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

// Fetcher supplies the full item snapshot. Load is all-or-nothing: either
// the complete list or an error, never partial results.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]model.Item, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]model.Item, error)

func (f FetcherFunc) FetchAll(ctx context.Context) ([]model.Item, error) { return f(ctx) }

// FetchError wraps a failed snapshot load. The only recovery is another
// Load call; there is no partial retry.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetching items: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// State is the load state of the store.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Store owns the in-memory working set of items and the current filter
// criteria. Items are loaded as a full snapshot and never mutated in
// place; the filtered view and stats recompute on every read.
type Store struct {
	fetcher Fetcher

	mu       sync.Mutex
	state    State
	items    []model.Item
	criteria Criteria
	selected string
	loadErr  error

	// gen increments on every accepted load so a superseded in-flight
	// fetch cannot clobber newer data.
	gen uint64
	// done is closed when the in-flight load finishes; concurrent Load
	// calls coalesce onto it instead of starting a second fetch.
	done chan struct{}
}

// NewStore creates a store around the given fetcher. The fetcher is an
// explicit dependency; the store never reads ambient state.
func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Load fetches the full snapshot, replacing the working set. A Load
// issued while another is in flight does not start a second fetch; it
// waits for the in-flight one and returns its outcome. On failure the
// store enters the error state and keeps no partial data.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		done := s.done
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.loadErr
	}

	s.state = StateLoading
	s.loadErr = nil
	s.done = make(chan struct{})
	gen := s.gen
	done := s.done
	s.mu.Unlock()

	items, err := s.fetcher.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)

	if s.gen != gen {
		// A Reload superseded this fetch; drop the result.
		return s.loadErr
	}
	s.gen++

	if err != nil {
		s.state = StateError
		s.items = nil
		s.selected = ""
		s.loadErr = &FetchError{Err: err}
		return s.loadErr
	}

	s.state = StateReady
	s.items = items
	if s.selected != "" && s.findLocked(s.selected) == nil {
		s.selected = ""
	}
	return nil
}

// Reload marks any in-flight load as stale and fetches a fresh snapshot.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		// Supersede the in-flight fetch; its result will be discarded.
		s.gen++
		s.state = StateIdle
	}
	s.mu.Unlock()
	return s.Load(ctx)
}

// State returns the current load state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed load, nil otherwise.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Items returns a copy of the full working set.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Criteria returns the current filter criteria.
func (s *Store) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Filtered returns the working set filtered by the current criteria,
// preserving load order.
func (s *Store) Filtered() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := Apply(s.items, s.criteria)
	out := make([]model.Item, len(filtered))
	copy(out, filtered)
	return out
}

// Stats returns the counts derived from the current filtered view.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(Apply(s.items, s.criteria))
}

// SetStatusFilter sets the status criterion ("" means all).
func (s *Store) SetStatusFilter(status model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Status = status
}

// SetCategoryFilter sets the category criterion ("" means all).
func (s *Store) SetCategoryFilter(category model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Category = category
}

// SetDateFrom sets the inclusive lower date bound (zero clears it).
func (s *Store) SetDateFrom(d model.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.DateFrom = d
}

// SetDateTo sets the inclusive upper date bound (zero clears it).
func (s *Store) SetDateTo(d model.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.DateTo = d
}

// ClearFilters resets every criterion in a single update.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = Criteria{}
}

// Select marks an item as open for detail display. An id that is not in
// the working set leaves the selection empty; it is not an error.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(id) != nil {
		s.selected = id
	} else {
		s.selected = ""
	}
}

// Deselect clears the selection.
func (s *Store) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Selected returns the selected item, or nil when nothing is selected.
func (s *Store) Selected() *model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.findLocked(s.selected)
	if item == nil {
		return nil
	}
	out := *item
	return &out
}

func (s *Store) findLocked(id string) *model.Item {
	if id == "" {
		return nil
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}
