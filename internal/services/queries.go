package services

import (
	"context"
	"fmt"
	"freight-exchange-service/internal/domain"
	"freight-exchange-service/internal/ports"

	"github.com/google/uuid"
)

// Read models served to the traffic-manager views. Checkpoint and route
// references are flattened to names; unknown references render as empty
// strings rather than failing the whole listing.

type LotView struct {
	Name            string
	Status          domain.State
	Volume          float64
	Location        string
	StartCheckpoint string
	EndCheckpoint   string
	// Tractors carries the names of assigned tractors (at most one today;
	// the views render it as a list).
	Tractors []string
}

type TractorView struct {
	Name            string
	Status          domain.State
	CurrentCapacity float64
	TotalCapacity   float64
	Location        string
	Route           []string
}

type RouteView struct {
	Name        string
	Checkpoints []string
}

// Queries assembles the read models from the entity store and the catalog.
type Queries struct {
	Lots     ports.LotRepository
	Tractors ports.TractorRepository
	Catalog  ports.RouteCatalog
}

func (q *Queries) Checkpoints(ctx context.Context) ([]*domain.Checkpoint, error) {
	cps, err := q.Catalog.ListCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("query checkpoints: %w", err)
	}
	return cps, nil
}

func (q *Queries) TrafficManagerLots(ctx context.Context) ([]LotView, error) {
	lots, err := q.Lots.ListLots(ctx)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}

	views := make([]LotView, 0, len(lots))
	for _, lot := range lots {
		view := LotView{
			Name:            lot.Name,
			Status:          lot.State,
			Volume:          lot.Volume,
			Location:        q.checkpointName(ctx, lot.CurrentCheckpointID),
			StartCheckpoint: q.checkpointName(ctx, lot.StartCheckpointID),
			EndCheckpoint:   q.checkpointName(ctx, lot.EndCheckpointID),
			Tractors:        []string{},
		}
		if lot.TractorID != nil {
			if tractor, err := q.Tractors.GetTractor(ctx, *lot.TractorID); err == nil {
				view.Tractors = append(view.Tractors, tractor.Name)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (q *Queries) TrafficManagerTractors(ctx context.Context) ([]TractorView, error) {
	tractors, err := q.Tractors.ListTractors(ctx)
	if err != nil {
		return nil, fmt.Errorf("query tractors: %w", err)
	}

	views := make([]TractorView, 0, len(tractors))
	for _, tractor := range tractors {
		view := TractorView{
			Name:            tractor.Name,
			Status:          tractor.State,
			CurrentCapacity: tractor.CurrentUnits,
			TotalCapacity:   tractor.MaxUnits,
			Location:        q.checkpointName(ctx, tractor.CurrentCheckpointID),
			Route:           []string{},
		}
		if tractor.RouteID != nil {
			if route, err := q.Catalog.GetRoute(ctx, *tractor.RouteID); err == nil {
				view.Route = q.checkpointNames(ctx, route.Checkpoints)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (q *Queries) TrafficManagerRoutes(ctx context.Context) ([]RouteView, error) {
	routes, err := q.Catalog.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}

	views := make([]RouteView, 0, len(routes))
	for _, route := range routes {
		views = append(views, RouteView{
			Name:        route.Name,
			Checkpoints: q.checkpointNames(ctx, route.Checkpoints),
		})
	}
	return views, nil
}

func (q *Queries) checkpointName(ctx context.Context, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	// Resolution failures degrade the view, not the listing.
	cp, err := q.Catalog.ResolveCheckpoint(ctx, id)
	if err != nil {
		return ""
	}
	return cp.Name
}

func (q *Queries) checkpointNames(ctx context.Context, ids []uuid.UUID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, q.checkpointName(ctx, id))
	}
	return names
}
