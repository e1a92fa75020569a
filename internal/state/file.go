// internal/state/file.go
package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/user/tddguard/internal/types"
)

// slotFiles maps each slot to its file name under the data directory.
var slotFiles = map[types.Slot]string{
	types.SlotTest:          "test.json",
	types.SlotTodo:          "todo.json",
	types.SlotModifications: "modifications.json",
	types.SlotLint:          "lint.json",
	types.SlotConfig:        "config.json",
	types.SlotInstructions:  "instructions.md",
}

const (
	lockRetryInterval = 25 * time.Millisecond
	lockWait          = 5 * time.Second
)

// FileStore keeps one file per slot under a project data directory
// (by default .claude/tdd-guard/data).
type FileStore struct {
	root string
	mu   sync.RWMutex
}

// NewFileStore creates a file-backed store rooted at the given directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the data directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) slotPath(slot types.Slot) (string, error) {
	name, ok := slotFiles[slot]
	if !ok {
		return "", fmt.Errorf("unknown slot: %s", slot)
	}
	return filepath.Join(s.root, name), nil
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.root, ".lock")
}

// Save writes the slot content atomically.
func (s *FileStore) Save(_ context.Context, slot types.Slot, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(slot, content)
}

// write stores already-serialized content. Caller must hold mu.
func (s *FileStore) write(slot types.Slot, content string) error {
	path, err := s.slotPath(slot)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Atomic write: write to a unique temp file then rename
	tmp, err := os.CreateTemp(s.root, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp %s: %w", slot, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp %s: %w", slot, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp %s: %w", slot, err)
	}
	return nil
}

// Get returns the slot content. A missing file is reported as ok=false.
func (s *FileStore) Get(_ context.Context, slot types.Slot) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(slot)
}

func (s *FileStore) read(slot types.Slot) (string, bool, error) {
	path, err := s.slotPath(slot)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", slot, err)
	}
	return string(data), true, nil
}

// ClearTransient removes the test, todo, modifications and lint files.
func (s *FileStore) ClearTransient(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range types.TransientSlots {
		path, err := s.slotPath(slot)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", slot, err)
		}
	}
	return nil
}

// Update runs fn against the current slot content while holding an
// exclusive lock file, so concurrent hook processes serialize their
// read-modify-write sequences.
func (s *FileStore) Update(ctx context.Context, slot types.Slot, fn func(current string, ok bool) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	unlock, err := acquireLock(ctx, s.lockPath())
	if err != nil {
		return err
	}
	defer unlock()

	current, ok, err := s.read(slot)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	return s.write(slot, next)
}

// acquireLock takes an OS-level exclusive lock on path, waiting up to
// lockWait. The kernel drops the lock if the holder dies.
func acquireLock(ctx context.Context, path string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire lock %s: timeout after %s", path, lockWait)
		}
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire lock %s: not acquired", path)
	}
	return func() { fl.Unlock() }, nil
}
