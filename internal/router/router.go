package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"org-service/internal/config"
	"org-service/internal/handler"
	"org-service/internal/middleware"
)

// HealthChecker reports whether the backing identity store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

func New(
	cfg *config.Config,
	health HealthChecker,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	orgHandler *handler.OrgHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := health.Health(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/signup", authHandler.SignUp)
		api.Post("/signin", authHandler.SignIn)
		api.Post("/refresh-token", authHandler.Refresh)
		api.With(authMiddleware.RequireAuth).Post("/revoke-refresh-token", authHandler.Revoke)

		api.Route("/organization", func(org chi.Router) {
			org.Use(authMiddleware.RequireAuth)
			org.Post("/", orgHandler.Create)
			org.Get("/", orgHandler.List)
			org.Get("/{organization_id}", orgHandler.Get)
			org.Post("/{organization_id}/invite", orgHandler.Invite)
		})
	})

	return r
}
