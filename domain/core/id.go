package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// EvaluationID identifies one evaluation of a residual sequence.
type EvaluationID ID

func (id EvaluationID) String() string { return ID(id).String() }

// NewEvaluationID returns a fresh time-ordered evaluation id.
func NewEvaluationID() EvaluationID { return EvaluationID(NewID()) }
