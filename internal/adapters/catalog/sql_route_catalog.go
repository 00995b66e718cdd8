package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"freight-exchange-service/internal/domain"

	"github.com/google/uuid"
)

// SQL-backed implementation of the RouteCatalog port. The catalog itself is
// curated outside the engine; this adapter only reads it.
type SQLRouteCatalog struct{ DB *sql.DB }

func NewSQLRouteCatalog(db *sql.DB) *SQLRouteCatalog {
	return &SQLRouteCatalog{DB: db}
}

func (c *SQLRouteCatalog) GetRoute(ctx context.Context, routeID uuid.UUID) (*domain.Route, error) {
	var name string
	err := c.DB.QueryRowContext(ctx,
		`SELECT name FROM routes WHERE route_id = ?;`, routeID.String()).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %s: %w", routeID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", routeID, err)
	}

	checkpoints, err := c.routeCheckpoints(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", routeID, err)
	}

	return &domain.Route{ID: routeID, Name: name, Checkpoints: checkpoints}, nil
}

func (c *SQLRouteCatalog) ResolveCheckpoint(ctx context.Context, checkpointID uuid.UUID) (*domain.Checkpoint, error) {
	var name, country string
	err := c.DB.QueryRowContext(ctx,
		`SELECT name, country FROM checkpoints WHERE checkpoint_id = ?;`,
		checkpointID.String()).Scan(&name, &country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve checkpoint %s: %w", checkpointID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve checkpoint %s: %w", checkpointID, err)
	}
	return &domain.Checkpoint{ID: checkpointID, Name: name, Country: country}, nil
}

func (c *SQLRouteCatalog) ListCheckpoints(ctx context.Context) ([]*domain.Checkpoint, error) {
	rows, err := c.DB.QueryContext(ctx,
		`SELECT checkpoint_id, name, country FROM checkpoints ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: query: %w", err)
	}
	defer rows.Close()

	checkpoints := []*domain.Checkpoint{}
	for rows.Next() {
		var id, name, country string
		if err := rows.Scan(&id, &name, &country); err != nil {
			return nil, fmt.Errorf("list checkpoints: scan row: %w", err)
		}
		cpID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("list checkpoints: parse checkpoint_id: %w", err)
		}
		checkpoints = append(checkpoints, &domain.Checkpoint{ID: cpID, Name: name, Country: country})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints: row iteration: %w", err)
	}
	return checkpoints, nil
}

func (c *SQLRouteCatalog) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT route_id, name FROM routes ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list routes: query: %w", err)
	}
	defer rows.Close()

	routes := []*domain.Route{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		routeID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("list routes: parse route_id: %w", err)
		}
		routes = append(routes, &domain.Route{ID: routeID, Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	for _, route := range routes {
		route.Checkpoints, err = c.routeCheckpoints(ctx, route.ID)
		if err != nil {
			return nil, fmt.Errorf("list routes: route %s: %w", route.ID, err)
		}
	}
	return routes, nil
}

func (c *SQLRouteCatalog) routeCheckpoints(ctx context.Context, routeID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := c.DB.QueryContext(ctx, `
	SELECT checkpoint_id FROM route_checkpoints
	WHERE route_id = ?
	ORDER BY position;
	`, routeID.String())
	if err != nil {
		return nil, fmt.Errorf("route legs: query: %w", err)
	}
	defer rows.Close()

	checkpoints := []uuid.UUID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("route legs: scan row: %w", err)
		}
		cpID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("route legs: parse checkpoint_id: %w", err)
		}
		checkpoints = append(checkpoints, cpID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route legs: row iteration: %w", err)
	}
	return checkpoints, nil
}
