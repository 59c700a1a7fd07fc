package attendance

import "github.com/google/uuid"

// IDGenerator produces the opaque unique ids carried by schools, classes and
// students. It is injected so tests stay deterministic; ids are stable for
// the entity's lifetime and double as the QR check-in payload.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() IDGenerator { return uuidGenerator{} }

func (uuidGenerator) NewID() string { return uuid.NewString() }
