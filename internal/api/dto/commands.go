package dto

import "time"

type LotCommandRequest struct {
	LotID string `json:"lot_id"`
}

type TractorCommandRequest struct {
	TractorID string `json:"tractor_id"`
}

type AdvanceRequest struct {
	LotID        string `json:"lot_id"`
	CheckpointID string `json:"checkpoint_id"`
}

type OfferResponse struct {
	ID              string    `json:"id"`
	LotID           string    `json:"lot_id"`
	TractorID       string    `json:"tractor_id"`
	AgreedPriceByKm float64   `json:"agreed_price_by_km"`
	CreatedAt       time.Time `json:"created_at"`
}

// MatchResponse reports a match outcome. A run that finds no candidate is a
// legitimate result, not an error: Matched is false and Offer is null.
type MatchResponse struct {
	Matched bool           `json:"matched"`
	Offer   *OfferResponse `json:"offer,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}
