package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	res := map[string]string{"status": "ok", "service": "freight-exchange"}
	writeJSON(w, r, http.StatusOK, res)
}
