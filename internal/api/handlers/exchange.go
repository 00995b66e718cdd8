package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"freight-exchange-service/internal/api/dto"
	"freight-exchange-service/internal/domain"
	"freight-exchange-service/internal/services"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// ExchangeHandler exposes the engine's command surface: listing and
// withdrawing entities, running a match, and recording checkpoint progress.
type ExchangeHandler struct {
	Lifecycle *services.Lifecycle
	Matcher   *services.Matcher
}

func (h *ExchangeHandler) ListLot(w http.ResponseWriter, r *http.Request) {
	h.lotCommand(w, r, h.Lifecycle.ListLot)
}

func (h *ExchangeHandler) WithdrawLot(w http.ResponseWriter, r *http.Request) {
	h.lotCommand(w, r, h.Lifecycle.WithdrawLot)
}

func (h *ExchangeHandler) ListTractor(w http.ResponseWriter, r *http.Request) {
	h.tractorCommand(w, r, h.Lifecycle.ListTractor)
}

func (h *ExchangeHandler) WithdrawTractor(w http.ResponseWriter, r *http.Request) {
	h.tractorCommand(w, r, h.Lifecycle.WithdrawTractor)
}

// MatchLot runs the matching engine for one lot. A successful match returns
// 201 with the offer; an empty candidate pool returns 200 with matched=false.
func (h *ExchangeHandler) MatchLot(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LotCommandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid lot_id")
		return
	}

	offer, err := h.Matcher.MatchLot(r.Context(), lotID)
	if err != nil {
		if errors.Is(err, domain.ErrNoCandidate) {
			writeJSON(w, r, http.StatusOK, dto.MatchResponse{
				Matched: false,
				Reason:  "no candidate tractor",
			})
			return
		}
		writeEngineError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.MatchResponse{
		Matched: true,
		Offer: &dto.OfferResponse{
			ID:              offer.ID.String(),
			LotID:           offer.LotID.String(),
			TractorID:       offer.TractorID.String(),
			AgreedPriceByKm: offer.AgreedPriceByKm,
			CreatedAt:       offer.CreatedAt,
		},
	})
}

// Advance records an externally reported checkpoint for a lot in transit.
func (h *ExchangeHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.AdvanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid lot_id")
		return
	}
	checkpointID, err := uuid.Parse(req.CheckpointID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid checkpoint_id")
		return
	}

	if err := h.Lifecycle.AdvanceCheckpoint(r.Context(), lotID, checkpointID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ExchangeHandler) lotCommand(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) error) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LotCommandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid lot_id")
		return
	}

	if err := op(r.Context(), lotID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ExchangeHandler) tractorCommand(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) error) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.TractorCommandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tractorID, err := uuid.Parse(req.TractorID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid tractor_id")
		return
	}

	if err := op(r.Context(), tractorID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
