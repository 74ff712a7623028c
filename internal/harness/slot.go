package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	// slotLinkName is the fixed final path component of the link slot.
	slotLinkName = "backend"

	// slotLockName is the advisory lock file guarding the slot.
	slotLockName = "backend.lock"
)

// ErrLinkCollision is returned when the link slot is already occupied at
// acquisition time. The loop sequences runners strictly, so a collision
// means stale state is present and the wrong version could be tested;
// callers must treat it as fatal, never retry.
var ErrLinkCollision = errors.New("link slot already occupied")

// Slot is the single reusable filesystem path that makes one backend
// version "current" during a check run. Between runs the path must not
// exist. A file lock next to the link serializes access across processes
// that share the slot directory.
type Slot struct {
	path    string
	lock    *flock.Flock
	tempDir string
}

// NewSlot creates a slot inside a freshly created temporary directory.
// Call Close to remove the directory when the harness run is over.
func NewSlot() (*Slot, error) {
	dir, err := os.MkdirTemp("", "gauntlet-")
	if err != nil {
		return nil, fmt.Errorf("failed to create slot directory: %w", err)
	}
	s := NewSlotAt(dir)
	s.tempDir = dir
	return s, nil
}

// NewSlotAt creates a slot inside an existing directory. The caller owns
// the directory's lifetime.
func NewSlotAt(dir string) *Slot {
	return &Slot{
		path: filepath.Join(dir, slotLinkName),
		lock: flock.New(filepath.Join(dir, slotLockName)),
	}
}

// Path returns the slot's link path. The path is stable across runs; only
// the link target changes, which is what lets the selection variable keep
// a constant value while versions are swapped underneath it.
func (s *Slot) Path() string {
	return s.path
}

// Acquire points the slot at the given backend root. It fails with
// ErrLinkCollision if the slot is occupied, whether by a leftover link
// from an unclean run or by another process holding the slot lock.
func (s *Slot) Acquire(target string) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock slot %s: %w", s.path, err)
	}
	if !locked {
		return fmt.Errorf("%w: lock on %s held by another process", ErrLinkCollision, s.path)
	}

	// Lstat, not Stat: a dangling link still occupies the slot.
	if _, err := os.Lstat(s.path); err == nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil {
			return fmt.Errorf("%w: %s exists (unlock also failed: %v)", ErrLinkCollision, s.path, unlockErr)
		}
		return fmt.Errorf("%w: %s exists", ErrLinkCollision, s.path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.lock.Unlock()
		return fmt.Errorf("failed to inspect slot %s: %w", s.path, err)
	}

	if err := os.Symlink(target, s.path); err != nil {
		s.lock.Unlock()
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrLinkCollision, s.path)
		}
		return fmt.Errorf("failed to link %s -> %s: %w", s.path, target, err)
	}

	return nil
}

// Release removes the slot link and drops the lock. It must be called on
// every exit path of a check run, success or failure; the link never
// outlives the run that created it.
func (s *Slot) Release() error {
	rmErr := os.Remove(s.path)
	if rmErr != nil && errors.Is(rmErr, fs.ErrNotExist) {
		rmErr = nil
	}
	unlockErr := s.lock.Unlock()

	if rmErr != nil {
		return fmt.Errorf("failed to remove slot link %s: %w", s.path, rmErr)
	}
	if unlockErr != nil {
		return fmt.Errorf("failed to unlock slot %s: %w", s.path, unlockErr)
	}
	return nil
}

// Close removes the temporary directory backing a slot created with
// NewSlot. It is a no-op for slots created with NewSlotAt.
func (s *Slot) Close() error {
	if s.tempDir == "" {
		return nil
	}
	if err := os.RemoveAll(s.tempDir); err != nil {
		return fmt.Errorf("failed to remove slot directory: %w", err)
	}
	return nil
}
