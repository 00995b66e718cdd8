package ports

import (
	"context"
	"freight-exchange-service/internal/domain"

	"github.com/google/uuid"
)

// Port: the checkpoint/route graph curated outside the engine.
// Unknown ids fail with domain.ErrNotFound.
type RouteCatalog interface {
	// GetRoute returns the route with its ordered checkpoint ids.
	GetRoute(ctx context.Context, routeID uuid.UUID) (*domain.Route, error)
	// ResolveCheckpoint confirms a checkpoint exists and returns it.
	ResolveCheckpoint(ctx context.Context, checkpointID uuid.UUID) (*domain.Checkpoint, error)

	ListCheckpoints(ctx context.Context) ([]*domain.Checkpoint, error)
	ListRoutes(ctx context.Context) ([]*domain.Route, error)
}
