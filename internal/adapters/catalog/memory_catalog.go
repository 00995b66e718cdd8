package catalog

import (
	"context"
	"fmt"
	"freight-exchange-service/internal/domain"
	"sort"

	"github.com/google/uuid"
)

// In-process catalog fake for tests.
type MemoryCatalog struct {
	checkpoints map[uuid.UUID]*domain.Checkpoint
	routes      map[uuid.UUID]*domain.Route
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		checkpoints: map[uuid.UUID]*domain.Checkpoint{},
		routes:      map[uuid.UUID]*domain.Route{},
	}
}

func (c *MemoryCatalog) AddCheckpoint(cp domain.Checkpoint) {
	c.checkpoints[cp.ID] = &cp
}

func (c *MemoryCatalog) AddRoute(route domain.Route) {
	c.routes[route.ID] = &route
}

func (c *MemoryCatalog) GetRoute(ctx context.Context, routeID uuid.UUID) (*domain.Route, error) {
	route, ok := c.routes[routeID]
	if !ok {
		return nil, fmt.Errorf("get route %s: %w", routeID, domain.ErrNotFound)
	}
	out := *route
	return &out, nil
}

func (c *MemoryCatalog) ResolveCheckpoint(ctx context.Context, checkpointID uuid.UUID) (*domain.Checkpoint, error) {
	cp, ok := c.checkpoints[checkpointID]
	if !ok {
		return nil, fmt.Errorf("resolve checkpoint %s: %w", checkpointID, domain.ErrNotFound)
	}
	out := *cp
	return &out, nil
}

func (c *MemoryCatalog) ListCheckpoints(ctx context.Context) ([]*domain.Checkpoint, error) {
	out := make([]*domain.Checkpoint, 0, len(c.checkpoints))
	for _, cp := range c.checkpoints {
		cc := *cp
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *MemoryCatalog) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	out := make([]*domain.Route, 0, len(c.routes))
	for _, route := range c.routes {
		cc := *route
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
