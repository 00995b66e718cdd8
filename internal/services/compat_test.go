package services

import (
	"context"
	"errors"
	"freight-exchange-service/internal/adapters/catalog"
	"freight-exchange-service/internal/domain"
	"testing"

	"github.com/google/uuid"
)

func TestCheckRouteCompatible(t *testing.T) {
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	cat := catalog.NewMemoryCatalog()
	cat.AddCheckpoint(domain.Checkpoint{ID: a, Name: "Paris", Country: "France"})
	cat.AddCheckpoint(domain.Checkpoint{ID: b, Name: "Lyon", Country: "France"})
	cat.AddCheckpoint(domain.Checkpoint{ID: c, Name: "Marseille", Country: "France"})

	route := &domain.Route{ID: uuid.New(), Name: "south", Checkpoints: []uuid.UUID{a, b, c}}

	lot := &domain.Lot{StartCheckpointID: a, EndCheckpointID: c}
	if err := CheckRouteCompatible(ctx, cat, lot, route); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Adjacent legs count.
	lot = &domain.Lot{StartCheckpointID: b, EndCheckpointID: c}
	if err := CheckRouteCompatible(ctx, cat, lot, route); err != nil {
		t.Fatalf("unexpected error for adjacent legs: %v", err)
	}

	// Reverse order is not reachable.
	lot = &domain.Lot{StartCheckpointID: c, EndCheckpointID: a}
	err := CheckRouteCompatible(ctx, cat, lot, route)
	if !errors.Is(err, domain.ErrIncompatibleRoute) {
		t.Fatalf("expected incompatible route, got %v", err)
	}

	// A checkpoint missing from the catalog is a route resolution failure,
	// not an ordering failure.
	lot = &domain.Lot{StartCheckpointID: uuid.New(), EndCheckpointID: c}
	err = CheckRouteCompatible(ctx, cat, lot, route)
	if !errors.Is(err, domain.ErrRouteNotFound) {
		t.Fatalf("expected route not found, got %v", err)
	}

	// Empty or missing routes never match.
	lot = &domain.Lot{StartCheckpointID: a, EndCheckpointID: c}
	err = CheckRouteCompatible(ctx, cat, lot, &domain.Route{ID: uuid.New()})
	if !errors.Is(err, domain.ErrIncompatibleRoute) {
		t.Fatalf("expected incompatible route for empty route, got %v", err)
	}
	err = CheckRouteCompatible(ctx, cat, lot, nil)
	if !errors.Is(err, domain.ErrIncompatibleRoute) {
		t.Fatalf("expected incompatible route for nil route, got %v", err)
	}
}
