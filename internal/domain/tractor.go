package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// A vehicle with a capacity and a price floor, capable of carrying lots.
// CurrentUnits is the volume already committed to active lots.
type Tractor struct {
	ID                  uuid.UUID
	Name                string
	ResourceType        ResourceType
	MaxUnits            float64
	CurrentUnits        float64
	CurrentCheckpointID uuid.UUID
	OwnerID             uuid.UUID
	TraderID            *uuid.UUID
	TrafficManagerID    *uuid.UUID
	RouteID             *uuid.UUID
	MinPriceByKm        float64
	State               State
	CreatedAt           time.Time

	Version int64
}

// Validate checks structural invariants before the tractor enters the store.
func (t *Tractor) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("validate tractor: name must not be empty")
	}
	if t.ResourceType == "" {
		return fmt.Errorf("validate tractor: resource type must not be empty")
	}
	if t.MaxUnits <= 0 {
		return fmt.Errorf("validate tractor: max units must be positive, got %v", t.MaxUnits)
	}
	if t.CurrentUnits < 0 || t.CurrentUnits > t.MaxUnits {
		return fmt.Errorf("validate tractor: current units %v outside [0, %v]", t.CurrentUnits, t.MaxUnits)
	}
	if t.MinPriceByKm < 0 {
		return fmt.Errorf("validate tractor: min price by km must not be negative, got %v", t.MinPriceByKm)
	}
	if !t.State.Valid() {
		return fmt.Errorf("validate tractor: invalid state %q", t.State)
	}
	return nil
}

// FreeUnits is the capacity still available for new lots.
func (t *Tractor) FreeUnits() float64 {
	return t.MaxUnits - t.CurrentUnits
}
