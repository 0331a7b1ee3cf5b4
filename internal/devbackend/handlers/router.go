// Package handlers exposes the dev backend over HTTP with chi.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the http.Handler serving every backend endpoint.
func NewRouter(logger logging.Logger, h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestSize(1 << 20))

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(h.secret))
		r.Mount("/api", h.Routes())
	})

	r.Post("/dev/token", h.IssueToken)
	r.Get("/dev/pay/{tid}", h.PaymentPage)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
