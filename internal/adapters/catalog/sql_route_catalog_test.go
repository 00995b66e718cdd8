package catalog

import (
	"context"
	"database/sql"
	"errors"
	"freight-exchange-service/internal/adapters/repositories"
	"freight-exchange-service/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const seedJSON = `{
	"checkpoints": [
		{"id": "11111111-1111-1111-1111-111111111111", "name": "Paris", "country": "France"},
		{"id": "22222222-2222-2222-2222-222222222222", "name": "Lyon", "country": "France"},
		{"id": "33333333-3333-3333-3333-333333333333", "name": "Marseille", "country": "France"}
	],
	"routes": [
		{
			"id": "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
			"name": "Rhone corridor",
			"checkpoints": [
				"11111111-1111-1111-1111-111111111111",
				"22222222-2222-2222-2222-222222222222",
				"33333333-3333-3333-3333-333333333333"
			]
		}
	]
}`

func seededCatalog(t *testing.T) *SQLRouteCatalog {
	t.Helper()

	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	seedPath := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(seedPath, []byte(seedJSON), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewSQLRouteCatalog(db)
}

func TestSQLRouteCatalogGetRoute(t *testing.T) {
	catalog := seededCatalog(t)
	ctx := context.Background()

	route, err := catalog.GetRoute(ctx, uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"))
	if err != nil {
		t.Fatalf("get route: %v", err)
	}
	if route.Name != "Rhone corridor" {
		t.Errorf("name = %q, want %q", route.Name, "Rhone corridor")
	}
	want := []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
		"33333333-3333-3333-3333-333333333333",
	}
	if len(route.Checkpoints) != len(want) {
		t.Fatalf("checkpoint count = %d, want %d", len(route.Checkpoints), len(want))
	}
	for i, id := range want {
		if route.Checkpoints[i] != uuid.MustParse(id) {
			t.Errorf("leg %d = %s, want %s", i, route.Checkpoints[i], id)
		}
	}

	_, err = catalog.GetRoute(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown route, got %v", err)
	}
}

func TestSQLRouteCatalogResolveCheckpoint(t *testing.T) {
	catalog := seededCatalog(t)
	ctx := context.Background()

	cp, err := catalog.ResolveCheckpoint(ctx, uuid.MustParse("22222222-2222-2222-2222-222222222222"))
	if err != nil {
		t.Fatalf("resolve checkpoint: %v", err)
	}
	if cp.Name != "Lyon" || cp.Country != "France" {
		t.Errorf("got %q/%q, want Lyon/France", cp.Name, cp.Country)
	}

	_, err = catalog.ResolveCheckpoint(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown checkpoint, got %v", err)
	}
}

func TestSQLRouteCatalogListCheckpointsSorted(t *testing.T) {
	catalog := seededCatalog(t)

	checkpoints, err := catalog.ListCheckpoints(context.Background())
	if err != nil {
		t.Fatalf("list checkpoints: %v", err)
	}
	if len(checkpoints) != 3 {
		t.Fatalf("len = %d, want 3", len(checkpoints))
	}
	wantOrder := []string{"Lyon", "Marseille", "Paris"}
	for i, name := range wantOrder {
		if checkpoints[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, checkpoints[i].Name, name)
		}
	}
}

func TestSQLRouteCatalogListRoutes(t *testing.T) {
	catalog := seededCatalog(t)

	routes, err := catalog.ListRoutes(context.Background())
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("len = %d, want 1", len(routes))
	}
	if len(routes[0].Checkpoints) != 3 {
		t.Errorf("route legs = %d, want 3", len(routes[0].Checkpoints))
	}
}
