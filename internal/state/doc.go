// Package state provides the slot stores and the decision log.
package state

import "github.com/user/tddguard/internal/types"

// Compile-time interface compliance checks.
var _ types.Store = (*FileStore)(nil)
var _ types.Store = (*MemoryStore)(nil)
var _ types.Store = (*SQLiteStore)(nil)
var _ types.Updater = (*FileStore)(nil)
var _ types.Updater = (*MemoryStore)(nil)
var _ types.Updater = (*SQLiteStore)(nil)
var _ types.DecisionLog = (*DecisionLog)(nil)
