package ports

import (
	"context"
	"freight-exchange-service/internal/domain"

	"github.com/google/uuid"
)

// Port: the working set of entities currently listed on the exchange,
// indexed by resource type for candidate lookup. Membership is ephemeral;
// the entity's own state field is the durable record. Add is idempotent.
type ExchangeLedger interface {
	AddLot(ctx context.Context, resourceType domain.ResourceType, lotID uuid.UUID) error
	RemoveLot(ctx context.Context, resourceType domain.ResourceType, lotID uuid.UUID) error
	AddTractor(ctx context.Context, resourceType domain.ResourceType, tractorID uuid.UUID) error
	RemoveTractor(ctx context.Context, resourceType domain.ResourceType, tractorID uuid.UUID) error

	// TractorCandidates returns listed tractor ids for the resource type,
	// sorted by id so engine iteration is reproducible.
	TractorCandidates(ctx context.Context, resourceType domain.ResourceType) ([]uuid.UUID, error)

	// LotCandidates is the lot-side counterpart, for a tractor-initiated
	// match walking the listed lots of its resource type.
	LotCandidates(ctx context.Context, resourceType domain.ResourceType) ([]uuid.UUID, error)
}
