package handlers

import (
	"encoding/json"
	"errors"
	"freight-exchange-service/internal/domain"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine's failure taxonomy onto HTTP statuses.
// State-machine violations and lost races are client-visible conflicts;
// unknown ids are 404; anything unrecognized is a 500 with the detail kept
// in the server log.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyListed):
		writeError(w, r, http.StatusConflict, "already listed")
	case errors.Is(err, domain.ErrAlreadyMatched):
		writeError(w, r, http.StatusConflict, "already matched")
	case errors.Is(err, domain.ErrNotListed):
		writeError(w, r, http.StatusConflict, "not listed")
	case errors.Is(err, domain.ErrConstraintFailure):
		writeError(w, r, http.StatusConflict, "constraint failure")
	case errors.Is(err, domain.ErrVersionConflict):
		writeError(w, r, http.StatusConflict, "concurrent update, retry")
	case domain.IsIllegalTransition(err):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		log.Printf("engine error: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
