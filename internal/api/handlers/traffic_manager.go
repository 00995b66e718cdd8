package handlers

import (
	"freight-exchange-service/internal/api/dto"
	"freight-exchange-service/internal/services"
	"log"
	"net/http"
)

// TrafficManagerHandler exposes the read-only views consumed by the
// traffic-manager screens. Empty catalogs and empty fleets render as empty
// arrays, never as errors.
type TrafficManagerHandler struct {
	Queries *services.Queries
}

func (h *TrafficManagerHandler) Checkpoints(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	checkpoints, err := h.Queries.Checkpoints(r.Context())
	if err != nil {
		log.Printf("list checkpoints failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.CheckpointResponse, 0, len(checkpoints))
	for _, cp := range checkpoints {
		res = append(res, dto.CheckpointResponse{
			ID:      cp.ID.String(),
			Name:    cp.Name,
			Country: cp.Country,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TrafficManagerHandler) Lots(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	lots, err := h.Queries.TrafficManagerLots(r.Context())
	if err != nil {
		log.Printf("list lots failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		res = append(res, dto.LotResponse{
			Name:            lot.Name,
			Status:          string(lot.Status),
			Volume:          lot.Volume,
			Location:        lot.Location,
			StartCheckpoint: lot.StartCheckpoint,
			EndCheckpoint:   lot.EndCheckpoint,
			Tractor:         lot.Tractors,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TrafficManagerHandler) Tractors(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	tractors, err := h.Queries.TrafficManagerTractors(r.Context())
	if err != nil {
		log.Printf("list tractors failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.TractorResponse, 0, len(tractors))
	for _, tractor := range tractors {
		res = append(res, dto.TractorResponse{
			Name:            tractor.Name,
			Status:          string(tractor.Status),
			CurrentCapacity: tractor.CurrentCapacity,
			TotalCapacity:   tractor.TotalCapacity,
			Location:        tractor.Location,
			Route:           tractor.Route,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TrafficManagerHandler) Routes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	routes, err := h.Queries.TrafficManagerRoutes(r.Context())
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.RouteResponse, 0, len(routes))
	for _, route := range routes {
		res = append(res, dto.RouteResponse{
			Name:  route.Name,
			Route: route.Checkpoints,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
