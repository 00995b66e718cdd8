package api

import (
	"freight-exchange-service/internal/api/handlers"
	"freight-exchange-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(lifecycle *services.Lifecycle, matcher *services.Matcher, queries *services.Queries) http.Handler {
	mux := http.NewServeMux()

	tmHandler := &handlers.TrafficManagerHandler{Queries: queries}
	exHandler := &handlers.ExchangeHandler{Lifecycle: lifecycle, Matcher: matcher}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("/checkpoints", tmHandler.Checkpoints)
	mux.HandleFunc("/traffic-manager/lots", tmHandler.Lots)
	mux.HandleFunc("/traffic-manager/tractors", tmHandler.Tractors)
	mux.HandleFunc("/traffic-manager/routes", tmHandler.Routes)

	mux.HandleFunc("/exchange/lots/list", exHandler.ListLot)
	mux.HandleFunc("/exchange/lots/withdraw", exHandler.WithdrawLot)
	mux.HandleFunc("/exchange/lots/match", exHandler.MatchLot)
	mux.HandleFunc("/exchange/tractors/list", exHandler.ListTractor)
	mux.HandleFunc("/exchange/tractors/withdraw", exHandler.WithdrawTractor)
	mux.HandleFunc("/lots/advance", exHandler.Advance)

	return loggingMiddleware(mux)
}
