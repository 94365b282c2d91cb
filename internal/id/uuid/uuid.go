// Package uuid provides ID generation helpers.
package uuid

import (
	"github.com/google/uuid"
)

// Generator creates batch identifiers. UUIDv7 keeps them time-ordered,
// which makes correlating batches in logs and metrics easier.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewBatchID returns a UUIDv7, falling back to v4 when the system
// clock source fails.
func (Generator) NewBatchID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
