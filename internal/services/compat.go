package services

import (
	"context"
	"errors"
	"fmt"
	"freight-exchange-service/internal/domain"
	"freight-exchange-service/internal/ports"
)

// CheckRouteCompatible decides whether the tractor's assigned route can carry
// the lot: the route must visit the lot's start checkpoint and, later or
// immediately after, its end checkpoint. Purely a predicate, no side effects.
//
// Fails with domain.ErrRouteNotFound when either checkpoint id cannot be
// resolved against the catalog, and domain.ErrIncompatibleRoute when
// containment or ordering fails.
func CheckRouteCompatible(ctx context.Context, catalog ports.RouteCatalog, lot *domain.Lot, route *domain.Route) error {
	if route == nil || len(route.Checkpoints) == 0 {
		return fmt.Errorf("check route: route is empty: %w", domain.ErrIncompatibleRoute)
	}

	if _, err := catalog.ResolveCheckpoint(ctx, lot.StartCheckpointID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check route: start checkpoint %s: %w", lot.StartCheckpointID, domain.ErrRouteNotFound)
		}
		return fmt.Errorf("check route: resolve start checkpoint: %w", err)
	}
	if _, err := catalog.ResolveCheckpoint(ctx, lot.EndCheckpointID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check route: end checkpoint %s: %w", lot.EndCheckpointID, domain.ErrRouteNotFound)
		}
		return fmt.Errorf("check route: resolve end checkpoint: %w", err)
	}

	if !route.Covers(lot.StartCheckpointID, lot.EndCheckpointID) {
		return fmt.Errorf("check route: route %s does not cover %s -> %s: %w",
			route.ID, lot.StartCheckpointID, lot.EndCheckpointID, domain.ErrIncompatibleRoute)
	}

	return nil
}
