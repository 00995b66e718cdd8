package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cargo resource category. The engine treats it as an opaque label and only
// requires lot/tractor equality; the seed catalog ships the usual categories.
type ResourceType string

const (
	ResourceTypeBulk   ResourceType = "Bulk"
	ResourceTypeSolid  ResourceType = "Solid"
	ResourceTypeLiquid ResourceType = "Liquid"
)

// A unit of cargo needing transport between two checkpoints.
// Mutated only by the matching engine and the lifecycle service; never
// physically removed while an offer references it (archival is a state).
type Lot struct {
	ID                  uuid.UUID
	Name                string
	ResourceType        ResourceType
	Volume              float64
	StartCheckpointID   uuid.UUID
	EndCheckpointID     uuid.UUID
	CurrentCheckpointID uuid.UUID
	OwnerID             uuid.UUID
	TraderID            *uuid.UUID
	TrafficManagerID    *uuid.UUID
	TractorID           *uuid.UUID
	MaxPriceByKm        float64
	State               State
	CreatedAt           time.Time

	// Version is the optimistic-concurrency token; every committed update
	// bumps it, and stale writes fail with ErrVersionConflict.
	Version int64
}

// Validate checks structural invariants before the lot enters the store.
func (l *Lot) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("validate lot: name must not be empty")
	}
	if l.ResourceType == "" {
		return fmt.Errorf("validate lot: resource type must not be empty")
	}
	if l.Volume <= 0 {
		return fmt.Errorf("validate lot: volume must be positive, got %v", l.Volume)
	}
	if l.MaxPriceByKm < 0 {
		return fmt.Errorf("validate lot: max price by km must not be negative, got %v", l.MaxPriceByKm)
	}
	if l.StartCheckpointID == uuid.Nil || l.EndCheckpointID == uuid.Nil {
		return fmt.Errorf("validate lot: start and end checkpoints are required")
	}
	if !l.State.Valid() {
		return fmt.Errorf("validate lot: invalid state %q", l.State)
	}
	return nil
}

// Delivered reports whether the lot has reached its destination checkpoint.
func (l *Lot) Delivered() bool {
	return l.CurrentCheckpointID == l.EndCheckpointID
}
