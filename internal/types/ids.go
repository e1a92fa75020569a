// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type SessionID string
type DecisionID string

func NewDecisionID() DecisionID {
	return DecisionID(uuid.New().String())
}
