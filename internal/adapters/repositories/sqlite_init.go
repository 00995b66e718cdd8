package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Initialize the exchange database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCheckpointsQuery := `
	CREATE TABLE IF NOT EXISTS checkpoints (
		checkpoint_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	createRouteCheckpointsQuery := `
	CREATE TABLE IF NOT EXISTS route_checkpoints (
		route_id TEXT NOT NULL,
		checkpoint_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (route_id, position)
	);
	`

	createLotsQuery := `
	CREATE TABLE IF NOT EXISTS lots (
		lot_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		volume REAL NOT NULL,
		start_checkpoint_id TEXT NOT NULL,
		end_checkpoint_id TEXT NOT NULL,
		current_checkpoint_id TEXT,
		owner_id TEXT NOT NULL,
		trader_id TEXT,
		traffic_manager_id TEXT,
		tractor_id TEXT,
		max_price_by_km REAL NOT NULL,
		state TEXT NOT NULL,
		created_at TEXT NOT NULL,
		version INTEGER NOT NULL
	);
	`

	createTractorsQuery := `
	CREATE TABLE IF NOT EXISTS tractors (
		tractor_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		max_units REAL NOT NULL,
		current_units REAL NOT NULL,
		current_checkpoint_id TEXT,
		owner_id TEXT NOT NULL,
		trader_id TEXT,
		traffic_manager_id TEXT,
		route_id TEXT,
		min_price_by_km REAL NOT NULL,
		state TEXT NOT NULL,
		created_at TEXT NOT NULL,
		version INTEGER NOT NULL
	);
	`

	createOffersQuery := `
	CREATE TABLE IF NOT EXISTS offers (
		offer_id TEXT PRIMARY KEY,
		lot_id TEXT NOT NULL,
		tractor_id TEXT NOT NULL,
		agreed_price_by_km REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createIndexesQuery := `
	CREATE INDEX IF NOT EXISTS idx_lots_tractor ON lots(tractor_id);
	CREATE INDEX IF NOT EXISTS idx_offers_lot ON offers(lot_id);
	`

	statements := []string{
		createCheckpointsQuery,
		createRoutesQuery,
		createRouteCheckpointsQuery,
		createLotsQuery,
		createTractorsQuery,
		createOffersQuery,
		createIndexesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CheckpointSeed struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type RouteSeed struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Checkpoints []string `json:"checkpoints"`
}

type TractorSeed struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	ResourceType      string  `json:"resource_type"`
	MaxUnits          float64 `json:"max_units"`
	CurrentCheckpoint string  `json:"current_checkpoint_id"`
	OwnerID           string  `json:"owner_id"`
	RouteID           string  `json:"route_id"`
	MinPriceByKm      float64 `json:"min_price_by_km"`
}

type LotSeed struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ResourceType    string  `json:"resource_type"`
	Volume          float64 `json:"volume"`
	StartCheckpoint string  `json:"start_checkpoint_id"`
	EndCheckpoint   string  `json:"end_checkpoint_id"`
	OwnerID         string  `json:"owner_id"`
	MaxPriceByKm    float64 `json:"max_price_by_km"`
}

type ExchangeSeed struct {
	Checkpoints []CheckpointSeed `json:"checkpoints"`
	Routes      []RouteSeed      `json:"routes"`
	Tractors    []TractorSeed    `json:"tractors"`
	Lots        []LotSeed        `json:"lots"`
}

// Populate the database with catalog and entity data from a JSON file.
// Seeded lots and tractors start AVAILABLE with a fresh version.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed exchange: read %q: %w", jsonPath, err)
	}

	var seed ExchangeSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed exchange: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed exchange: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	for i, cp := range seed.Checkpoints {
		if err := requireUUID(cp.ID); err != nil {
			return fmt.Errorf("seed exchange: checkpoint #%d: %w", i+1, err)
		}
		if strings.TrimSpace(cp.Name) == "" {
			return fmt.Errorf("seed exchange: checkpoint #%d: name cannot be empty", i+1)
		}
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO checkpoints (checkpoint_id, name, country) VALUES (?, ?, ?);`,
			cp.ID, cp.Name, cp.Country,
		)
		if err != nil {
			return fmt.Errorf("seed exchange: insert checkpoint %q: %w", cp.Name, err)
		}
	}

	for i, rt := range seed.Routes {
		if err := requireUUID(rt.ID); err != nil {
			return fmt.Errorf("seed exchange: route #%d: %w", i+1, err)
		}
		if len(rt.Checkpoints) == 0 {
			return fmt.Errorf("seed exchange: route %q: must have at least one checkpoint", rt.Name)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO routes (route_id, name) VALUES (?, ?);`,
			rt.ID, rt.Name,
		); err != nil {
			return fmt.Errorf("seed exchange: insert route %q: %w", rt.Name, err)
		}
		if _, err := tx.Exec(`DELETE FROM route_checkpoints WHERE route_id = ?;`, rt.ID); err != nil {
			return fmt.Errorf("seed exchange: clear route legs %q: %w", rt.Name, err)
		}
		for pos, cpID := range rt.Checkpoints {
			if err := requireUUID(cpID); err != nil {
				return fmt.Errorf("seed exchange: route %q leg #%d: %w", rt.Name, pos+1, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO route_checkpoints (route_id, checkpoint_id, position) VALUES (?, ?, ?);`,
				rt.ID, cpID, pos,
			); err != nil {
				return fmt.Errorf("seed exchange: insert route leg %q#%d: %w", rt.Name, pos+1, err)
			}
		}
	}

	for i, tr := range seed.Tractors {
		if err := requireUUID(tr.ID); err != nil {
			return fmt.Errorf("seed exchange: tractor #%d: %w", i+1, err)
		}
		if tr.MaxUnits <= 0 {
			return fmt.Errorf("seed exchange: tractor %q: max_units must be positive", tr.Name)
		}
		_, err := tx.Exec(`
		INSERT OR REPLACE INTO tractors (
			tractor_id, name, resource_type, max_units, current_units,
			current_checkpoint_id, owner_id, trader_id, traffic_manager_id,
			route_id, min_price_by_km, state, created_at, version
		)
		VALUES (?, ?, ?, ?, 0, ?, ?, NULL, NULL, ?, ?, 'AVAILABLE', ?, 1);
		`,
			tr.ID, tr.Name, tr.ResourceType, tr.MaxUnits,
			nullable(tr.CurrentCheckpoint), tr.OwnerID, nullable(tr.RouteID),
			tr.MinPriceByKm, now,
		)
		if err != nil {
			return fmt.Errorf("seed exchange: insert tractor %q: %w", tr.Name, err)
		}
	}

	for i, lot := range seed.Lots {
		if err := requireUUID(lot.ID); err != nil {
			return fmt.Errorf("seed exchange: lot #%d: %w", i+1, err)
		}
		if lot.Volume <= 0 {
			return fmt.Errorf("seed exchange: lot %q: volume must be positive", lot.Name)
		}
		_, err := tx.Exec(`
		INSERT OR REPLACE INTO lots (
			lot_id, name, resource_type, volume,
			start_checkpoint_id, end_checkpoint_id, current_checkpoint_id,
			owner_id, trader_id, traffic_manager_id, tractor_id,
			max_price_by_km, state, created_at, version
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, NULL, ?, 'AVAILABLE', ?, 1);
		`,
			lot.ID, lot.Name, lot.ResourceType, lot.Volume,
			lot.StartCheckpoint, lot.EndCheckpoint, nullable(lot.StartCheckpoint),
			lot.OwnerID, lot.MaxPriceByKm, now,
		)
		if err != nil {
			return fmt.Errorf("seed exchange: insert lot %q: %w", lot.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed exchange: commit tx: %w", err)
	}

	return nil
}

func requireUUID(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
