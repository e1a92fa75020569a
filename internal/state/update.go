// internal/state/update.go
package state

import (
	"context"
	"fmt"
	"io"

	"github.com/user/tddguard/internal/types"
)

// Update performs a read-modify-write of one slot. Stores implementing
// types.Updater run it atomically; others fall back to Get then Save.
func Update(ctx context.Context, store types.Store, slot types.Slot, fn func(current string, ok bool) (string, error)) error {
	if u, ok := store.(types.Updater); ok {
		return u.Update(ctx, slot, fn)
	}

	current, ok, err := store.Get(ctx, slot)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	return store.Save(ctx, slot, next)
}

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open returns the store for the named driver rooted at dir. The returned
// io.Closer is a no-op for stores without resources to release.
func Open(driver, dir string) (types.Store, io.Closer, error) {
	switch driver {
	case "", DriverFile:
		return NewFileStore(dir), io.NopCloser(nil), nil
	case DriverMemory:
		return NewMemoryStore(), io.NopCloser(nil), nil
	case DriverSQLite:
		s, err := OpenSQLiteStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}
