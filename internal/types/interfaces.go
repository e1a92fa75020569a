// internal/types/interfaces.go
package types

import (
	"context"
)

// Store persists the content of each Slot. Get reports ok=false when the
// slot has never been written or was cleared.
type Store interface {
	Save(ctx context.Context, slot Slot, content string) error
	Get(ctx context.Context, slot Slot) (content string, ok bool, err error)
	ClearTransient(ctx context.Context) error
}

// Updater is implemented by stores that can run a read-modify-write of a
// single slot without interleaving with other writers.
type Updater interface {
	Update(ctx context.Context, slot Slot, fn func(current string, ok bool) (string, error)) error
}

type DecisionLog interface {
	Append(ctx context.Context, d *Decision) error
	Tail(ctx context.Context, limit int) ([]*Decision, error)
	Count(ctx context.Context) (int64, error)
}
