package services

import (
	"context"
	"errors"
	"fmt"
	"freight-exchange-service/internal/domain"
	"freight-exchange-service/internal/platform/obs"
	"freight-exchange-service/internal/ports"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Number of times a match restarts after losing a version race before
// giving up with domain.ErrConstraintFailure.
const defaultMaxRetries = 3

// Matcher pairs a listed lot with the cheapest compatible tractor and
// commits the paired state transition atomically.
type Matcher struct {
	Lots     ports.LotRepository
	Tractors ports.TractorRepository
	Offers   ports.OfferRepository
	Store    ports.ExchangeStore
	Ledger   ports.ExchangeLedger
	Catalog  ports.RouteCatalog

	// MaxRetries bounds restarts after version conflicts. Zero means the
	// default.
	MaxRetries int
	// Now supplies offer timestamps; defaults to time.Now.
	Now func() time.Time
}

// MatchLot finds the best-priced compatible tractor for a listed lot and
// commits the match: an offer at the tractor's price floor, both entities
// ON_THE_WAY, the tractor's committed volume increased by the lot's.
//
// Outcomes: the created offer; domain.ErrNotListed when the lot is not on
// the exchange; domain.ErrNoCandidate when no tractor survives the filters
// (a legitimate result, the lot stays listed); domain.ErrConstraintFailure
// when every surviving candidate was concurrently consumed within the retry
// budget.
func (m *Matcher) MatchLot(ctx context.Context, lotID uuid.UUID) (offer *domain.Offer, err error) {
	defer obs.Time(ctx, "match_lot")(&err)

	lot, err := m.Lots.GetLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("match lot %s: %w", lotID, err)
	}
	if lot.State != domain.StateOnStockExchange {
		return nil, fmt.Errorf("match lot %s: state %s: %w", lotID, lot.State, domain.ErrNotListed)
	}

	maxRetries := m.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	// Candidates that lost a version race in a previous round are excluded
	// from subsequent rounds; their committed state is unknown to us and
	// re-reading them is the ledger's job on the next external attempt.
	excluded := map[uuid.UUID]struct{}{}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		best, ferr := m.findBest(ctx, lot, excluded)
		if ferr != nil {
			return nil, fmt.Errorf("match lot %s: %w", lotID, ferr)
		}
		if best == nil {
			return nil, fmt.Errorf("match lot %s: %w", lotID, domain.ErrNoCandidate)
		}

		offer, cerr := m.commit(ctx, lot, best)
		if cerr == nil {
			log.Printf("op=match lot=%s tractor=%s price=%v attempt=%d",
				lot.ID, best.ID, offer.AgreedPriceByKm, attempt)
			return offer, nil
		}
		if !errors.Is(cerr, domain.ErrVersionConflict) {
			return nil, fmt.Errorf("match lot %s: %w", lotID, cerr)
		}

		// Lost the race for this tractor (or the lot itself went stale).
		// Re-read the lot; if it is no longer listed someone else consumed it.
		lot, err = m.Lots.GetLot(ctx, lotID)
		if err != nil {
			return nil, fmt.Errorf("match lot %s: reload after conflict: %w", lotID, err)
		}
		if lot.State != domain.StateOnStockExchange {
			return nil, fmt.Errorf("match lot %s: state %s after conflict: %w", lotID, lot.State, domain.ErrNotListed)
		}
		excluded[best.ID] = struct{}{}
	}

	return nil, fmt.Errorf("match lot %s: retry budget exhausted: %w", lotID, domain.ErrConstraintFailure)
}

// findBest returns the surviving candidate with the lowest price floor,
// ties broken by earliest creation time then smallest id, or nil when the
// surviving set is empty.
func (m *Matcher) findBest(ctx context.Context, lot *domain.Lot, excluded map[uuid.UUID]struct{}) (*domain.Tractor, error) {
	ids, err := m.Ledger.TractorCandidates(ctx, lot.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("ledger candidates: %w", err)
	}

	survivors := make([]*domain.Tractor, 0, len(ids))
	for _, id := range ids {
		if _, skip := excluded[id]; skip {
			continue
		}

		tractor, err := m.Tractors.GetTractor(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load candidate %s: %w", id, err)
		}
		if tractor.State != domain.StateOnStockExchange && tractor.State != domain.StateAvailable {
			continue
		}
		if tractor.RouteID == nil {
			continue
		}

		route, err := m.Catalog.GetRoute(ctx, *tractor.RouteID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load route for candidate %s: %w", id, err)
		}
		if err := CheckRouteCompatible(ctx, m.Catalog, lot, route); err != nil {
			if errors.Is(err, domain.ErrIncompatibleRoute) || errors.Is(err, domain.ErrRouteNotFound) {
				continue
			}
			return nil, err
		}
		if err := ValidatePair(lot, tractor); err != nil {
			continue
		}

		survivors = append(survivors, tractor)
	}

	if len(survivors) == 0 {
		return nil, nil
	}

	// Deterministic selection: price floor, then age, then id.
	sort.Slice(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.MinPriceByKm != b.MinPriceByKm {
			return a.MinPriceByKm < b.MinPriceByKm
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return survivors[0], nil
}

// commit performs the atomic dual transition: both entities move to
// ON_THE_WAY, the tractor takes on the lot's volume, and the offer is
// recorded at the tractor's price floor. All-or-nothing through the store.
func (m *Matcher) commit(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor) (*domain.Offer, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	matchedLot := *lot
	matchedLot.State = domain.StateOnTheWay
	tractorID := tractor.ID
	matchedLot.TractorID = &tractorID

	matchedTractor := *tractor
	matchedTractor.State = domain.StateOnTheWay
	matchedTractor.CurrentUnits += lot.Volume

	offer := &domain.Offer{
		ID:              uuid.New(),
		LotID:           lot.ID,
		TractorID:       tractor.ID,
		AgreedPriceByKm: tractor.MinPriceByKm,
		CreatedAt:       now(),
	}

	if err := m.Store.CommitMatch(ctx, &matchedLot, &matchedTractor, offer); err != nil {
		return nil, err
	}

	// Matched entities leave the working set. Ledger trouble after a durable
	// commit must not fail the match; candidates are re-checked on load anyway.
	if err := m.Ledger.RemoveLot(ctx, lot.ResourceType, lot.ID); err != nil {
		log.Printf("op=match lot=%s remove lot from ledger failed: %v", lot.ID, err)
	}
	if err := m.Ledger.RemoveTractor(ctx, tractor.ResourceType, tractor.ID); err != nil {
		log.Printf("op=match lot=%s remove tractor %s from ledger failed: %v", lot.ID, tractor.ID, err)
	}

	return offer, nil
}
