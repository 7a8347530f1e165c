// Package http is the inbound REST surface of the token tool. Routes are
// thin: decode, delegate to the lifecycle use case, map errors to stable
// codes.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts every route on a fresh chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", h.bindSession)

		r.Get("/fees", h.getFees)
		r.Post("/fees/refresh", h.refreshFees)

		r.Get("/tokens/{mint}", h.getToken)

		r.Post("/vanity/start", h.startVanity)
		r.Get("/vanity/status", h.vanityStatus)
		r.Post("/vanity/cancel", h.cancelVanity)

		r.Post("/operations/{kind}", h.runOperation)

		r.Route("/admin/fees", func(r chi.Router) {
			r.Post("/init", h.initFees)
			r.Post("/update", h.updateFees)
			r.Post("/withdraw", h.withdrawFees)
		})
	})

	return r
}
