package uploads

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(t.TempDir(), time.Hour)
	t.Cleanup(m.Close)
	return m
}

func TestAddGetRemove(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Add("photo.jpg", "image/jpeg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated upload id")
	}

	got, data, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "photo.jpg" || !bytes.Equal(data, []byte("jpeg bytes")) {
		t.Error("staged upload does not round trip")
	}

	if err := m.Remove(s.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
	if err := m.Remove(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestConsumeKeepsOrder(t *testing.T) {
	m := newTestManager(t)

	a, _ := m.Add("a.jpg", "image/jpeg", []byte("aaa"))
	b, _ := m.Add("b.jpg", "image/jpeg", []byte("bbb"))

	entries, blobs, err := m.Consume([]string{b.ID, a.ID})
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if entries[0].Name != "b.jpg" || entries[1].Name != "a.jpg" {
		t.Error("consume order should match the requested id order")
	}
	if string(blobs[0]) != "bbb" || string(blobs[1]) != "aaa" {
		t.Error("blob data mismatch")
	}

	// Consumed uploads are gone.
	if _, _, err := m.Get(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected consumed upload to be gone, got %v", err)
	}
}

func TestConsumeMissingIDConsumesNothing(t *testing.T) {
	m := newTestManager(t)

	a, _ := m.Add("a.jpg", "image/jpeg", []byte("aaa"))

	if _, _, err := m.Consume([]string{a.ID, "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The valid upload is still staged.
	if _, _, err := m.Get(a.ID); err != nil {
		t.Errorf("expected upload to survive failed consume: %v", err)
	}
}

func TestConsumeFailedReadLeavesUploadsStaged(t *testing.T) {
	m := newTestManager(t)

	a, _ := m.Add("a.jpg", "image/jpeg", []byte("aaa"))
	b, _ := m.Add("b.jpg", "image/jpeg", []byte("bbb"))

	// Make one backing file unreadable.
	if err := os.Remove(b.path); err != nil {
		t.Fatalf("removing backing file: %v", err)
	}

	if _, _, err := m.Consume([]string{a.ID, b.ID}); err == nil {
		t.Fatal("expected error for unreadable upload")
	}

	// The intact upload is still staged and sweepable, not orphaned.
	if _, data, err := m.Get(a.ID); err != nil || string(data) != "aaa" {
		t.Errorf("expected upload to survive failed consume: %v", err)
	}
	m.sweep(time.Now().Add(2 * time.Hour))
	if _, _, err := m.Get(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected sweeper to reclaim the staged upload, got %v", err)
	}
}

func TestSweepDropsExpired(t *testing.T) {
	m := newTestManager(t)

	s, _ := m.Add("a.jpg", "image/jpeg", []byte("aaa"))
	m.sweep(time.Now().Add(2 * time.Hour))

	if _, _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired upload to be swept, got %v", err)
	}
}
