package ports

import (
	"context"
	"freight-exchange-service/internal/domain"

	"github.com/google/uuid"
)

// Port: lot persistence with optimistic versioning.
// Update matches the entity's Version and bumps it on success; a stale
// write fails with domain.ErrVersionConflict.
type LotRepository interface {
	GetLot(ctx context.Context, id uuid.UUID) (*domain.Lot, error)
	CreateLot(ctx context.Context, lot *domain.Lot) error
	UpdateLot(ctx context.Context, lot *domain.Lot) error
	ListLots(ctx context.Context) ([]*domain.Lot, error)
	// ListLotsByTractor returns lots currently assigned to the tractor.
	ListLotsByTractor(ctx context.Context, tractorID uuid.UUID) ([]*domain.Lot, error)
}

// Port: tractor persistence with optimistic versioning.
type TractorRepository interface {
	GetTractor(ctx context.Context, id uuid.UUID) (*domain.Tractor, error)
	CreateTractor(ctx context.Context, tractor *domain.Tractor) error
	UpdateTractor(ctx context.Context, tractor *domain.Tractor) error
	ListTractors(ctx context.Context) ([]*domain.Tractor, error)
}

// Port: insert-only offer records.
type OfferRepository interface {
	CreateOffer(ctx context.Context, offer *domain.Offer) error
	// GetOfferByLot returns the offer referencing the lot, or
	// domain.ErrNotFound when none exists.
	GetOfferByLot(ctx context.Context, lotID uuid.UUID) (*domain.Offer, error)
	ListOffers(ctx context.Context) ([]*domain.Offer, error)
}

// Port: the two multi-entity mutations of the engine, committed
// all-or-nothing. Both writes check the entities' pre-mutation versions;
// either entity being stale fails the whole commit with
// domain.ErrVersionConflict and leaves the store untouched.
type ExchangeStore interface {
	// CommitMatch persists the paired state transition and the offer.
	CommitMatch(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor, offer *domain.Offer) error
	// CommitArchival persists the lot's archival together with the
	// tractor's capacity release and state reversion.
	CommitArchival(ctx context.Context, lot *domain.Lot, tractor *domain.Tractor) error
}
