package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"composite/internal/keystore/handler"
	"composite/internal/platform/config"
	"composite/internal/platform/metrics"
	"composite/pkg/platform/httputil"
	"composite/pkg/platform/middleware/admin"
	request "composite/pkg/platform/middleware/request"
)

// newRouter mounts the keystore API, health and metrics endpoints behind the
// shared middleware chain.
func newRouter(cfg config.Server, logger *slog.Logger, reg *prometheus.Registry, keystore *handler.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(request.RequestID)
	r.Use(request.Time)
	r.Use(request.AccessLog(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		r.Use(request.LimitBody(cfg.MaxBodyBytes))
		keystore.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, logger))
			keystore.RegisterAdmin(r)
		})
	})
	return r
}
