package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"freight-exchange-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

// SQL-backed implementation of the entity-store ports over database/sql.
// Optimistic versioning: every UPDATE is guarded by the entity's version
// and bumps it; zero affected rows on an existing entity is a version
// conflict. The two multi-entity commits run inside a single transaction.
type SQLStore struct{ DB *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

const lotColumns = `
	lot_id, name, resource_type, volume,
	start_checkpoint_id, end_checkpoint_id, current_checkpoint_id,
	owner_id, trader_id, traffic_manager_id, tractor_id,
	max_price_by_km, state, created_at, version
`

const tractorColumns = `
	tractor_id, name, resource_type, max_units, current_units,
	current_checkpoint_id, owner_id, trader_id, traffic_manager_id,
	route_id, min_price_by_km, state, created_at, version
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) GetLot(ctx context.Context, id uuid.UUID) (*domain.Lot, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE lot_id = ?;`, id.String())

	lot, err := scanLot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get lot %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get lot %s: %w", id, err)
	}
	return lot, nil
}

func (s *SQLStore) CreateLot(ctx context.Context, lot *domain.Lot) error {
	if err := lot.Validate(); err != nil {
		return fmt.Errorf("create lot: %w", err)
	}

	lot.Version = 1
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO lots (`+lotColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		lot.ID.String(), lot.Name, string(lot.ResourceType), lot.Volume,
		lot.StartCheckpointID.String(), lot.EndCheckpointID.String(), uuidOrNil(lot.CurrentCheckpointID),
		lot.OwnerID.String(), uuidPtr(lot.TraderID), uuidPtr(lot.TrafficManagerID), uuidPtr(lot.TractorID),
		lot.MaxPriceByKm, string(lot.State), formatTime(lot.CreatedAt), lot.Version,
	)
	if err != nil {
		return fmt.Errorf("create lot %s: %w", lot.ID, err)
	}
	return nil
}

func (s *SQLStore) UpdateLot(ctx context.Context, lot *domain.Lot) error {
	if err := updateLotTx(ctx, s.DB, lot); err != nil {
		return fmt.Errorf("update lot %s: %w", lot.ID, err)
	}
	lot.Version++
	return nil
}

func (s *SQLStore) ListLots(ctx context.Context) ([]*domain.Lot, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+lotColumns+` FROM lots ORDER BY created_at, lot_id;`)
	if err != nil {
		return nil, fmt.Errorf("list lots: query: %w", err)
	}
	defer rows.Close()

	lots := make([]*domain.Lot, 0, 64)
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("list lots: scan row: %w", err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lots: row iteration: %w", err)
	}
	return lots, nil
}

func (s *SQLStore) ListLotsByTractor(ctx context.Context, tractorID uuid.UUID) ([]*domain.Lot, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE tractor_id = ? ORDER BY created_at, lot_id;`,
		tractorID.String())
	if err != nil {
		return nil, fmt.Errorf("list lots by tractor %s: query: %w", tractorID, err)
	}
	defer rows.Close()

	lots := []*domain.Lot{}
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("list lots by tractor %s: scan row: %w", tractorID, err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lots by tractor %s: row iteration: %w", tractorID, err)
	}
	return lots, nil
}

func (s *SQLStore) GetTractor(ctx context.Context, id uuid.UUID) (*domain.Tractor, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+tractorColumns+` FROM tractors WHERE tractor_id = ?;`, id.String())

	tractor, err := scanTractor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get tractor %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tractor %s: %w", id, err)
	}
	return tractor, nil
}

func (s *SQLStore) CreateTractor(ctx context.Context, tractor *domain.Tractor) error {
	if err := tractor.Validate(); err != nil {
		return fmt.Errorf("create tractor: %w", err)
	}

	tractor.Version = 1
	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO tractors (`+tractorColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		tractor.ID.String(), tractor.Name, string(tractor.ResourceType), tractor.MaxUnits, tractor.CurrentUnits,
		uuidOrNil(tractor.CurrentCheckpointID), tractor.OwnerID.String(), uuidPtr(tractor.TraderID), uuidPtr(tractor.TrafficManagerID),
		uuidPtr(tractor.RouteID), tractor.MinPriceByKm, string(tractor.State), formatTime(tractor.CreatedAt), tractor.Version,
	)
	if err != nil {
		return fmt.Errorf("create tractor %s: %w", tractor.ID, err)
	}
	return nil
}

func (s *SQLStore) UpdateTractor(ctx context.Context, tractor *domain.Tractor) error {
	if err := updateTractorTx(ctx, s.DB, tractor); err != nil {
		return fmt.Errorf("update tractor %s: %w", tractor.ID, err)
	}
	tractor.Version++
	return nil
}

func (s *SQLStore) ListTractors(ctx context.Context) ([]*domain.Tractor, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+tractorColumns+` FROM tractors ORDER BY created_at, tractor_id;`)
	if err != nil {
		return nil, fmt.Errorf("list tractors: query: %w", err)
	}
	defer rows.Close()

	tractors := make([]*domain.Tractor, 0, 64)
	for rows.Next() {
		tractor, err := scanTractor(rows)
		if err != nil {
			return nil, fmt.Errorf("list tractors: scan row: %w", err)
		}
		tractors = append(tractors, tractor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tractors: row iteration: %w", err)
	}
	return tractors, nil
}

func (s *SQLStore) CreateOffer(ctx context.Context, offer *domain.Offer) error {
	if err := insertOffer(ctx, s.DB, offer); err != nil {
		return fmt.Errorf("create offer %s: %w", offer.ID, err)
	}
	return nil
}

func (s *SQLStore) GetOfferByLot(ctx context.Context, lotID uuid.UUID) (*domain.Offer, error) {
	row := s.DB.QueryRowContext(ctx, `
	SELECT offer_id, lot_id, tractor_id, agreed_price_by_km, created_at
	FROM offers
	WHERE lot_id = ?
	ORDER BY created_at DESC
	LIMIT 1;
	`, lotID.String())

	offer, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("offer for lot %s: %w", lotID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("offer for lot %s: %w", lotID, err)
	}
	return offer, nil
}

func (s *SQLStore) ListOffers(ctx context.Context) ([]*domain.Offer, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT offer_id, lot_id, tractor_id, agreed_price_by_km, created_at
	FROM offers ORDER BY created_at, offer_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list offers: query: %w", err)
	}
	defer rows.Close()

	offers := []*domain.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("list offers: scan row: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offers: row iteration: %w", err)
	}
	return offers, nil
}

// CommitMatch persists the paired state transition and the offer in one
// transaction. Either versioned update affecting zero rows rolls the whole
// commit back with domain.ErrVersionConflict.
func (s *SQLStore) CommitMatch(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor, offer *domain.Offer) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit match: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateLotTx(ctx, tx, lot); err != nil {
		return fmt.Errorf("commit match: lot %s: %w", lot.ID, err)
	}
	if err := updateTractorTx(ctx, tx, tractor); err != nil {
		return fmt.Errorf("commit match: tractor %s: %w", tractor.ID, err)
	}
	if err := insertOffer(ctx, tx, offer); err != nil {
		return fmt.Errorf("commit match: offer %s: %w", offer.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match: commit tx: %w", err)
	}
	lot.Version++
	tractor.Version++
	return nil
}

// CommitArchival persists the lot's archival and the tractor's capacity
// release in one transaction.
func (s *SQLStore) CommitArchival(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit archival: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateLotTx(ctx, tx, lot); err != nil {
		return fmt.Errorf("commit archival: lot %s: %w", lot.ID, err)
	}
	if err := updateTractorTx(ctx, tx, tractor); err != nil {
		return fmt.Errorf("commit archival: tractor %s: %w", tractor.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archival: commit tx: %w", err)
	}
	lot.Version++
	tractor.Version++
	return nil
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func updateLotTx(ctx context.Context, ex execer, lot *domain.Lot) error {
	res, err := ex.ExecContext(ctx, `
	UPDATE lots SET
		name = ?, resource_type = ?, volume = ?,
		start_checkpoint_id = ?, end_checkpoint_id = ?, current_checkpoint_id = ?,
		owner_id = ?, trader_id = ?, traffic_manager_id = ?, tractor_id = ?,
		max_price_by_km = ?, state = ?, version = version + 1
	WHERE lot_id = ? AND version = ?;
	`,
		lot.Name, string(lot.ResourceType), lot.Volume,
		lot.StartCheckpointID.String(), lot.EndCheckpointID.String(), uuidOrNil(lot.CurrentCheckpointID),
		lot.OwnerID.String(), uuidPtr(lot.TraderID), uuidPtr(lot.TrafficManagerID), uuidPtr(lot.TractorID),
		lot.MaxPriceByKm, string(lot.State),
		lot.ID.String(), lot.Version,
	)
	if err != nil {
		return err
	}
	return checkAffected(ctx, ex, res, "lots", "lot_id", lot.ID)
}

func updateTractorTx(ctx context.Context, ex execer, tractor *domain.Tractor) error {
	res, err := ex.ExecContext(ctx, `
	UPDATE tractors SET
		name = ?, resource_type = ?, max_units = ?, current_units = ?,
		current_checkpoint_id = ?, owner_id = ?, trader_id = ?, traffic_manager_id = ?,
		route_id = ?, min_price_by_km = ?, state = ?, version = version + 1
	WHERE tractor_id = ? AND version = ?;
	`,
		tractor.Name, string(tractor.ResourceType), tractor.MaxUnits, tractor.CurrentUnits,
		uuidOrNil(tractor.CurrentCheckpointID), tractor.OwnerID.String(), uuidPtr(tractor.TraderID), uuidPtr(tractor.TrafficManagerID),
		uuidPtr(tractor.RouteID), tractor.MinPriceByKm, string(tractor.State),
		tractor.ID.String(), tractor.Version,
	)
	if err != nil {
		return err
	}
	return checkAffected(ctx, ex, res, "tractors", "tractor_id", tractor.ID)
}

// checkAffected distinguishes a stale version from a missing row after a
// guarded UPDATE touched nothing.
func checkAffected(ctx context.Context, ex execer, res sql.Result, table, idColumn string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var one int
	err = ex.QueryRowContext(ctx,
		`SELECT 1 FROM `+table+` WHERE `+idColumn+` = ?;`, id.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("existence check: %w", err)
	}
	return domain.ErrVersionConflict
}

func insertOffer(ctx context.Context, ex execer, offer *domain.Offer) error {
	_, err := ex.ExecContext(ctx, `
	INSERT INTO offers (offer_id, lot_id, tractor_id, agreed_price_by_km, created_at)
	VALUES (?, ?, ?, ?, ?);
	`,
		offer.ID.String(), offer.LotID.String(), offer.TractorID.String(),
		offer.AgreedPriceByKm, formatTime(offer.CreatedAt),
	)
	return err
}

func scanLot(row rowScanner) (*domain.Lot, error) {
	var (
		lot                             domain.Lot
		id, start, end, owner           string
		current, trader, manager, tract sql.NullString
		resourceType, state, createdAt  string
	)
	err := row.Scan(
		&id, &lot.Name, &resourceType, &lot.Volume,
		&start, &end, &current,
		&owner, &trader, &manager, &tract,
		&lot.MaxPriceByKm, &state, &createdAt, &lot.Version,
	)
	if err != nil {
		return nil, err
	}

	if lot.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse lot_id: %w", err)
	}
	if lot.StartCheckpointID, err = uuid.Parse(start); err != nil {
		return nil, fmt.Errorf("parse start_checkpoint_id: %w", err)
	}
	if lot.EndCheckpointID, err = uuid.Parse(end); err != nil {
		return nil, fmt.Errorf("parse end_checkpoint_id: %w", err)
	}
	if lot.OwnerID, err = uuid.Parse(owner); err != nil {
		return nil, fmt.Errorf("parse owner_id: %w", err)
	}
	if lot.CurrentCheckpointID, err = parseNullUUID(current); err != nil {
		return nil, fmt.Errorf("parse current_checkpoint_id: %w", err)
	}
	if lot.TraderID, err = parseUUIDPtr(trader); err != nil {
		return nil, fmt.Errorf("parse trader_id: %w", err)
	}
	if lot.TrafficManagerID, err = parseUUIDPtr(manager); err != nil {
		return nil, fmt.Errorf("parse traffic_manager_id: %w", err)
	}
	if lot.TractorID, err = parseUUIDPtr(tract); err != nil {
		return nil, fmt.Errorf("parse tractor_id: %w", err)
	}
	if lot.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	lot.ResourceType = domain.ResourceType(resourceType)
	lot.State = domain.State(state)
	return &lot, nil
}

func scanTractor(row rowScanner) (*domain.Tractor, error) {
	var (
		tractor                        domain.Tractor
		id, owner                      string
		current, trader, manager, rt   sql.NullString
		resourceType, state, createdAt string
	)
	err := row.Scan(
		&id, &tractor.Name, &resourceType, &tractor.MaxUnits, &tractor.CurrentUnits,
		&current, &owner, &trader, &manager,
		&rt, &tractor.MinPriceByKm, &state, &createdAt, &tractor.Version,
	)
	if err != nil {
		return nil, err
	}

	if tractor.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse tractor_id: %w", err)
	}
	if tractor.OwnerID, err = uuid.Parse(owner); err != nil {
		return nil, fmt.Errorf("parse owner_id: %w", err)
	}
	if tractor.CurrentCheckpointID, err = parseNullUUID(current); err != nil {
		return nil, fmt.Errorf("parse current_checkpoint_id: %w", err)
	}
	if tractor.TraderID, err = parseUUIDPtr(trader); err != nil {
		return nil, fmt.Errorf("parse trader_id: %w", err)
	}
	if tractor.TrafficManagerID, err = parseUUIDPtr(manager); err != nil {
		return nil, fmt.Errorf("parse traffic_manager_id: %w", err)
	}
	if tractor.RouteID, err = parseUUIDPtr(rt); err != nil {
		return nil, fmt.Errorf("parse route_id: %w", err)
	}
	if tractor.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	tractor.ResourceType = domain.ResourceType(resourceType)
	tractor.State = domain.State(state)
	return &tractor, nil
}

func scanOffer(row rowScanner) (*domain.Offer, error) {
	var (
		offer              domain.Offer
		id, lotID, tractID string
		createdAt          string
	)
	err := row.Scan(&id, &lotID, &tractID, &offer.AgreedPriceByKm, &createdAt)
	if err != nil {
		return nil, err
	}

	if offer.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse offer_id: %w", err)
	}
	if offer.LotID, err = uuid.Parse(lotID); err != nil {
		return nil, fmt.Errorf("parse lot_id: %w", err)
	}
	if offer.TractorID, err = uuid.Parse(tractID); err != nil {
		return nil, fmt.Errorf("parse tractor_id: %w", err)
	}
	if offer.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &offer, nil
}

func uuidOrNil(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

func uuidPtr(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func parseNullUUID(s sql.NullString) (uuid.UUID, error) {
	if !s.Valid {
		return uuid.Nil, nil
	}
	return uuid.Parse(s.String)
}

func parseUUIDPtr(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
