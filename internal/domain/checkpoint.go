package domain

import "github.com/google/uuid"

// A named location node in the route graph. Immutable once created.
type Checkpoint struct {
	ID      uuid.UUID
	Name    string
	Country string
}
