package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSlotAcquireRelease(t *testing.T) {
	target := t.TempDir()
	slot := NewSlotAt(t.TempDir())

	if err := slot.Acquire(target); err != nil {
		t.Fatalf("unexpected acquire error: %v", err)
	}

	resolved, err := os.Readlink(slot.Path())
	if err != nil {
		t.Fatalf("expected slot path to be a symlink: %v", err)
	}
	if resolved != target {
		t.Errorf("expected link to %s, got %s", target, resolved)
	}

	if err := slot.Release(); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	if _, err := os.Lstat(slot.Path()); !os.IsNotExist(err) {
		t.Errorf("expected slot path to be absent after release, got err=%v", err)
	}
}

func TestSlotReuseAfterRelease(t *testing.T) {
	slot := NewSlotAt(t.TempDir())
	first := t.TempDir()
	second := t.TempDir()

	if err := slot.Acquire(first); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := slot.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}

	if err := slot.Acquire(second); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	resolved, err := os.Readlink(slot.Path())
	if err != nil {
		t.Fatal(err)
	}
	if resolved != second {
		t.Errorf("expected link to %s, got %s", second, resolved)
	}
	if err := slot.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}

func TestSlotCollision(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()

	// Simulate a leftover link from an unclean run.
	leftover := NewSlotAt(dir)
	if err := os.Symlink(target, leftover.Path()); err != nil {
		t.Fatal(err)
	}

	err := leftover.Acquire(target)
	if !errors.Is(err, ErrLinkCollision) {
		t.Fatalf("expected ErrLinkCollision, got %v", err)
	}
}

func TestSlotCollisionOnDanglingLink(t *testing.T) {
	dir := t.TempDir()
	slot := NewSlotAt(dir)

	if err := os.Symlink(filepath.Join(dir, "gone"), slot.Path()); err != nil {
		t.Fatal(err)
	}

	if err := slot.Acquire(t.TempDir()); !errors.Is(err, ErrLinkCollision) {
		t.Fatalf("expected ErrLinkCollision for dangling link, got %v", err)
	}
}

func TestSlotCollisionWhileHeld(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()

	held := NewSlotAt(dir)
	if err := held.Acquire(target); err != nil {
		t.Fatal(err)
	}
	defer held.Release()

	// A second slot over the same directory sees the occupied link.
	other := NewSlotAt(dir)
	if err := other.Acquire(target); !errors.Is(err, ErrLinkCollision) {
		t.Fatalf("expected ErrLinkCollision, got %v", err)
	}
}

func TestNewSlotCreatesAndClosesTempDir(t *testing.T) {
	slot, err := NewSlot()
	if err != nil {
		t.Fatal(err)
	}

	parent := filepath.Dir(slot.Path())
	if _, err := os.Stat(parent); err != nil {
		t.Fatalf("expected slot parent dir to exist: %v", err)
	}
	if filepath.Base(slot.Path()) != slotLinkName {
		t.Errorf("expected fixed link name %q, got %q", slotLinkName, filepath.Base(slot.Path()))
	}

	if err := slot.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if _, err := os.Stat(parent); !os.IsNotExist(err) {
		t.Errorf("expected slot parent dir removed after close, got err=%v", err)
	}
}
