// Package entity stamps identifiers onto new records and provides the by-id
// collection operations shared by every store.
package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces globally unique opaque identifiers.
type IDGenerator interface {
	Next() (string, error)
}

// Identified is implemented by every persisted record.
type Identified interface {
	EntityID() string
}

// Payload is a record without an id that knows how to build the full record.
type Payload[E Identified] interface {
	WithID(id string) E
}

// IDGenerationError reports that no identifier could be produced. No record
// exists when this error is returned.
type IDGenerationError struct {
	Err error
}

func (e *IDGenerationError) Error() string {
	return fmt.Sprintf("failed to generate id: %v", e.Err)
}

func (e *IDGenerationError) Unwrap() error {
	return e.Err
}

// Create assigns a fresh identifier to payload.
func Create[E Identified, P Payload[E]](gen IDGenerator, payload P) (E, error) {
	id, err := gen.Next()
	if err != nil {
		var zero E
		return zero, &IDGenerationError{Err: err}
	}
	return payload.WithID(id), nil
}

// UUIDGenerator produces random (version 4) UUIDs.
type UUIDGenerator struct{}

// Next returns a new UUID string.
func (UUIDGenerator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GeneratorFunc adapts a function to IDGenerator.
type GeneratorFunc func() (string, error)

// Next calls f.
func (f GeneratorFunc) Next() (string, error) {
	return f()
}
