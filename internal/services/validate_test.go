package services

import (
	"errors"
	"freight-exchange-service/internal/domain"
	"strings"
	"testing"
)

func TestValidatePair(t *testing.T) {
	lot := &domain.Lot{ResourceType: "grain", Volume: 50, MaxPriceByKm: 2.0}
	tractor := &domain.Tractor{ResourceType: "grain", MaxUnits: 100, CurrentUnits: 0, MinPriceByKm: 1.5}

	if err := ValidatePair(lot, tractor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// The check order is part of the contract: resource type, then price, then
// capacity. A pair failing several checks must surface the earliest reason.
func TestValidatePairPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		tractor domain.Tractor
		reason  string
	}{
		{
			name:    "resource type before price and capacity",
			tractor: domain.Tractor{ResourceType: "coal", MaxUnits: 10, MinPriceByKm: 9.0},
			reason:  RejectResourceType,
		},
		{
			name:    "price before capacity",
			tractor: domain.Tractor{ResourceType: "grain", MaxUnits: 10, MinPriceByKm: 9.0},
			reason:  RejectPrice,
		},
		{
			name:    "capacity last",
			tractor: domain.Tractor{ResourceType: "grain", MaxUnits: 10, MinPriceByKm: 1.0},
			reason:  RejectCapacity,
		},
	}

	lot := &domain.Lot{ResourceType: "grain", Volume: 50, MaxPriceByKm: 2.0}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidatePair(lot, &c.tractor)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !errors.Is(err, domain.ErrConstraintFailure) {
				t.Errorf("expected constraint failure, got %v", err)
			}
			if !strings.Contains(err.Error(), c.reason) {
				t.Errorf("expected reason %q in %q", c.reason, err.Error())
			}
		})
	}
}

func TestValidatePairCommittedVolume(t *testing.T) {
	lot := &domain.Lot{ResourceType: "grain", Volume: 50, MaxPriceByKm: 2.0}
	tractor := &domain.Tractor{ResourceType: "grain", MaxUnits: 100, CurrentUnits: 60, MinPriceByKm: 1.5}

	err := ValidatePair(lot, tractor)
	if err == nil {
		t.Fatal("expected capacity rejection against committed volume")
	}
	if !strings.Contains(err.Error(), RejectCapacity) {
		t.Errorf("expected capacity reason, got %q", err.Error())
	}
}
