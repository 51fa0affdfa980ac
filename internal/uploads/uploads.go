// Package uploads stages processed images between upload and item
// submission.
//
// Each upload gets an opaque ID the client can preview or remove before
// the report is submitted. Staged uploads that are never consumed are
// swept after a TTL so abandoned forms do not accumulate on disk.
package uploads

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxPerItem is the maximum number of images attached to one report.
const MaxPerItem = 5

// DefaultTTL is how long an unconsumed upload is kept.
const DefaultTTL = time.Hour

// ErrNotFound is returned when an upload ID does not exist or expired.
var ErrNotFound = errors.New("upload not found")

// Staged describes one staged upload.
type Staged struct {
	ID     string
	Name   string
	MIME   string
	Size   int64
	path   string
	stored time.Time
}

// Manager holds staged uploads in temp files.
type Manager struct {
	mu      sync.Mutex
	staged  map[string]*Staged
	dir     string
	ttl     time.Duration
	done    chan struct{}
	sweepWG sync.WaitGroup
}

// NewManager creates a manager staging files under dir (the OS temp
// directory when empty) and starts the background sweeper.
func NewManager(dir string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		staged: make(map[string]*Staged),
		dir:    dir,
		ttl:    ttl,
		done:   make(chan struct{}),
	}
	m.sweepWG.Add(1)
	go m.sweepLoop()
	return m
}

// Add stages processed image data and returns its handle.
func (m *Manager) Add(name, mime string, data []byte) (*Staged, error) {
	f, err := os.CreateTemp(m.dir, "upload-*.img")
	if err != nil {
		return nil, fmt.Errorf("creating staging file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("closing staging file: %w", err)
	}

	s := &Staged{
		ID:     uuid.NewString(),
		Name:   name,
		MIME:   mime,
		Size:   int64(len(data)),
		path:   f.Name(),
		stored: time.Now(),
	}

	m.mu.Lock()
	m.staged[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the staged upload's data for previewing.
func (m *Manager) Get(id string) (*Staged, []byte, error) {
	m.mu.Lock()
	s, ok := m.staged[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil, ErrNotFound
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading staged upload: %w", err)
	}
	return s, data, nil
}

// Remove discards a staged upload and its backing file.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	s, ok := m.staged[id]
	delete(m.staged, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	os.Remove(s.path)
	return nil
}

// Consume removes the staged uploads for ids and returns their metadata
// and data, in the given order. If any ID is missing or unreadable,
// nothing is consumed and the rest stay staged.
func (m *Manager) Consume(ids []string) ([]*Staged, [][]byte, error) {
	m.mu.Lock()
	entries := make([]*Staged, 0, len(ids))
	for _, id := range ids {
		s, ok := m.staged[id]
		if !ok {
			m.mu.Unlock()
			return nil, nil, fmt.Errorf("upload %s: %w", id, ErrNotFound)
		}
		entries = append(entries, s)
	}
	m.mu.Unlock()

	// Read everything before unstaging anything, so a failed read
	// leaves every upload staged and reclaimable by the sweeper.
	blobs := make([][]byte, 0, len(entries))
	for _, s := range entries {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading staged upload: %w", err)
		}
		blobs = append(blobs, data)
	}

	m.mu.Lock()
	for _, id := range ids {
		if _, ok := m.staged[id]; !ok {
			// Consumed or swept while we were reading.
			m.mu.Unlock()
			return nil, nil, fmt.Errorf("upload %s: %w", id, ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(m.staged, id)
	}
	m.mu.Unlock()

	for _, s := range entries {
		os.Remove(s.path)
	}
	return entries, blobs, nil
}

// Close stops the sweeper and discards all staged uploads.
func (m *Manager) Close() {
	close(m.done)
	m.sweepWG.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.staged {
		os.Remove(s.path)
		delete(m.staged, id)
	}
}

func (m *Manager) sweepLoop() {
	defer m.sweepWG.Done()

	ticker := time.NewTicker(m.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.staged {
		if now.Sub(s.stored) > m.ttl {
			os.Remove(s.path)
			delete(m.staged, id)
		}
	}
}
