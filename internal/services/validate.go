package services

import (
	"fmt"
	"freight-exchange-service/internal/domain"
)

// Reject reasons surfaced by ValidatePair, in check order.
const (
	RejectResourceType = "resource type mismatch"
	RejectPrice        = "price floor above price ceiling"
	RejectCapacity     = "insufficient free capacity"
)

// ValidatePair decides whether a (lot, tractor) pair satisfies the commercial
// and capacity constraints. Checks run in a fixed order and the first failing
// reason wins: resource type, then price (floor vs ceiling), then free
// capacity. Price runs before capacity so commercial mismatches surface
// first; callers depend on this precedence.
func ValidatePair(lot *domain.Lot, tractor *domain.Tractor) error {
	if lot.ResourceType != tractor.ResourceType {
		return fmt.Errorf("validate pair: %s (lot %s, tractor %s): %w",
			RejectResourceType, lot.ResourceType, tractor.ResourceType, domain.ErrConstraintFailure)
	}
	if tractor.MinPriceByKm > lot.MaxPriceByKm {
		return fmt.Errorf("validate pair: %s (floor %v, ceiling %v): %w",
			RejectPrice, tractor.MinPriceByKm, lot.MaxPriceByKm, domain.ErrConstraintFailure)
	}
	if tractor.FreeUnits() < lot.Volume {
		return fmt.Errorf("validate pair: %s (free %v, need %v): %w",
			RejectCapacity, tractor.FreeUnits(), lot.Volume, domain.ErrConstraintFailure)
	}
	return nil
}
