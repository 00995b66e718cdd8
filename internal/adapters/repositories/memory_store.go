package repositories

import (
	"context"
	"fmt"
	"freight-exchange-service/internal/domain"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// In-process implementation of the entity-store ports, used by tests and
// seedless dev runs. A single mutex makes every operation, including the
// two-entity commits, atomic; version checks behave exactly as the SQL
// store's so races exercise the same conflict paths.
type MemoryStore struct {
	mu       sync.Mutex
	lots     map[uuid.UUID]*domain.Lot
	tractors map[uuid.UUID]*domain.Tractor
	offers   []*domain.Offer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lots:     map[uuid.UUID]*domain.Lot{},
		tractors: map[uuid.UUID]*domain.Tractor{},
	}
}

func (m *MemoryStore) GetLot(ctx context.Context, id uuid.UUID) (*domain.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lot, ok := m.lots[id]
	if !ok {
		return nil, fmt.Errorf("get lot %s: %w", id, domain.ErrNotFound)
	}
	out := *lot
	return &out, nil
}

func (m *MemoryStore) CreateLot(ctx context.Context, lot *domain.Lot) error {
	if err := lot.Validate(); err != nil {
		return fmt.Errorf("create lot: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.lots[lot.ID]; exists {
		return fmt.Errorf("create lot %s: already exists", lot.ID)
	}
	lot.Version = 1
	stored := *lot
	m.lots[lot.ID] = &stored
	return nil
}

func (m *MemoryStore) UpdateLot(ctx context.Context, lot *domain.Lot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.updateLotLocked(lot); err != nil {
		return fmt.Errorf("update lot %s: %w", lot.ID, err)
	}
	return nil
}

func (m *MemoryStore) ListLots(ctx context.Context) ([]*domain.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Lot, 0, len(m.lots))
	for _, lot := range m.lots {
		c := *lot
		out = append(out, &c)
	}
	sortLots(out)
	return out, nil
}

func (m *MemoryStore) ListLotsByTractor(ctx context.Context, tractorID uuid.UUID) ([]*domain.Lot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Lot{}
	for _, lot := range m.lots {
		if lot.TractorID != nil && *lot.TractorID == tractorID {
			c := *lot
			out = append(out, &c)
		}
	}
	sortLots(out)
	return out, nil
}

func (m *MemoryStore) GetTractor(ctx context.Context, id uuid.UUID) (*domain.Tractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tractor, ok := m.tractors[id]
	if !ok {
		return nil, fmt.Errorf("get tractor %s: %w", id, domain.ErrNotFound)
	}
	out := *tractor
	return &out, nil
}

func (m *MemoryStore) CreateTractor(ctx context.Context, tractor *domain.Tractor) error {
	if err := tractor.Validate(); err != nil {
		return fmt.Errorf("create tractor: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tractors[tractor.ID]; exists {
		return fmt.Errorf("create tractor %s: already exists", tractor.ID)
	}
	tractor.Version = 1
	stored := *tractor
	m.tractors[tractor.ID] = &stored
	return nil
}

func (m *MemoryStore) UpdateTractor(ctx context.Context, tractor *domain.Tractor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.updateTractorLocked(tractor); err != nil {
		return fmt.Errorf("update tractor %s: %w", tractor.ID, err)
	}
	return nil
}

func (m *MemoryStore) ListTractors(ctx context.Context) ([]*domain.Tractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Tractor, 0, len(m.tractors))
	for _, tractor := range m.tractors {
		c := *tractor
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryStore) CreateOffer(ctx context.Context, offer *domain.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *offer
	m.offers = append(m.offers, &stored)
	return nil
}

func (m *MemoryStore) GetOfferByLot(ctx context.Context, lotID uuid.UUID) (*domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.offers) - 1; i >= 0; i-- {
		if m.offers[i].LotID == lotID {
			out := *m.offers[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("offer for lot %s: %w", lotID, domain.ErrNotFound)
}

func (m *MemoryStore) ListOffers(ctx context.Context) ([]*domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Offer, 0, len(m.offers))
	for _, offer := range m.offers {
		c := *offer
		out = append(out, &c)
	}
	return out, nil
}

// CommitMatch applies the paired transition and the offer under one lock:
// either both versioned writes land or neither does.
func (m *MemoryStore) CommitMatch(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor, offer *domain.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkVersionsLocked(lot, tractor); err != nil {
		return fmt.Errorf("commit match lot=%s tractor=%s: %w", lot.ID, tractor.ID, err)
	}

	m.applyLotLocked(lot)
	m.applyTractorLocked(tractor)
	stored := *offer
	m.offers = append(m.offers, &stored)
	return nil
}

// CommitArchival applies the lot's archival and the tractor's capacity
// release under one lock.
func (m *MemoryStore) CommitArchival(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkVersionsLocked(lot, tractor); err != nil {
		return fmt.Errorf("commit archival lot=%s tractor=%s: %w", lot.ID, tractor.ID, err)
	}

	m.applyLotLocked(lot)
	m.applyTractorLocked(tractor)
	return nil
}

func (m *MemoryStore) checkVersionsLocked(lot *domain.Lot, tractor *domain.Tractor) error {
	storedLot, ok := m.lots[lot.ID]
	if !ok {
		return fmt.Errorf("lot: %w", domain.ErrNotFound)
	}
	if storedLot.Version != lot.Version {
		return fmt.Errorf("lot: %w", domain.ErrVersionConflict)
	}
	storedTractor, ok := m.tractors[tractor.ID]
	if !ok {
		return fmt.Errorf("tractor: %w", domain.ErrNotFound)
	}
	if storedTractor.Version != tractor.Version {
		return fmt.Errorf("tractor: %w", domain.ErrVersionConflict)
	}
	return nil
}

func (m *MemoryStore) updateLotLocked(lot *domain.Lot) error {
	stored, ok := m.lots[lot.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != lot.Version {
		return domain.ErrVersionConflict
	}
	m.applyLotLocked(lot)
	return nil
}

func (m *MemoryStore) updateTractorLocked(tractor *domain.Tractor) error {
	stored, ok := m.tractors[tractor.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != tractor.Version {
		return domain.ErrVersionConflict
	}
	m.applyTractorLocked(tractor)
	return nil
}

func (m *MemoryStore) applyLotLocked(lot *domain.Lot) {
	lot.Version++
	stored := *lot
	m.lots[lot.ID] = &stored
}

func (m *MemoryStore) applyTractorLocked(tractor *domain.Tractor) {
	tractor.Version++
	stored := *tractor
	m.tractors[tractor.ID] = &stored
}

func sortLots(lots []*domain.Lot) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].CreatedAt.Equal(lots[j].CreatedAt) {
			return lots[i].CreatedAt.Before(lots[j].CreatedAt)
		}
		return lots[i].ID.String() < lots[j].ID.String()
	})
}
