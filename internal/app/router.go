package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/signet-id/signet/internal/auth"
	"github.com/signet-id/signet/internal/federation"
	"github.com/signet-id/signet/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	AuthHandler   *auth.Handler
	GoogleHandler *federation.Handler
}

// NewRouter constructs the chi.Router with Signet defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"message": "Welcome to Signet"})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		if params.GoogleHandler != nil {
			r.Route("/google", params.GoogleHandler.MountRoutes)
		}
	})

	return r
}
