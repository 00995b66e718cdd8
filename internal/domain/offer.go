package domain

import (
	"time"

	"github.com/google/uuid"
)

// The durable record of a finalized lot-tractor match and its agreed price.
// Immutable once created.
type Offer struct {
	ID              uuid.UUID
	LotID           uuid.UUID
	TractorID       uuid.UUID
	AgreedPriceByKm float64
	CreatedAt       time.Time
}
