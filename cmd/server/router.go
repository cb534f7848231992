package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-jsonapi/internal/api"
	apiMiddleware "github.com/phrazzld/scry-jsonapi/internal/api/middleware"
)

// setupRouter creates the router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	basePath := app.config.API.BasePath
	r.Route(basePath, func(r chi.Router) {
		r.Use(apiMiddleware.RateLimit(apiMiddleware.RateLimitConfig{
			Rate:  app.config.API.RateLimit,
			Burst: app.config.API.RateBurst,
		}))
		api.Routes(r, basePath, app.memoStore, app.logger)
	})

	return r
}
