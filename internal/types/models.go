// internal/types/models.go
package types

import (
	"time"
)

// Slot names one piece of state kept between hook invocations.
type Slot string

const (
	SlotTest          Slot = "test"
	SlotTodo          Slot = "todo"
	SlotModifications Slot = "modifications"
	SlotLint          Slot = "lint"
	SlotConfig        Slot = "config"
	SlotInstructions  Slot = "instructions"
)

// TransientSlots are cleared when a new agent session starts.
var TransientSlots = []Slot{SlotTest, SlotTodo, SlotModifications, SlotLint}

// AllSlots lists every slot in a stable order.
var AllSlots = []Slot{SlotTest, SlotTodo, SlotModifications, SlotLint, SlotConfig, SlotInstructions}

// Transient reports whether the slot is cleared on session start.
func (s Slot) Transient() bool {
	for _, t := range TransientSlots {
		if t == s {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known slots.
func (s Slot) Valid() bool {
	for _, known := range AllSlots {
		if known == s {
			return true
		}
	}
	return false
}

// Decision is one audit record describing how a hook event was handled.
type Decision struct {
	ID        DecisionID `json:"id"`
	SessionID SessionID  `json:"session_id,omitempty"`
	Seq       int64      `json:"seq"`
	Event     string     `json:"event,omitempty"`
	Tool      string     `json:"tool,omitempty"`
	Stage     string     `json:"stage"`
	Decision  string     `json:"decision,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	At        time.Time  `json:"at"`
}
