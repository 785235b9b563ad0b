package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-calc-auth/internal/config"
	"go-calc-auth/internal/handler"
	"go-calc-auth/internal/metrics"
	"go-calc-auth/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Calc   *handler.CalcHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(m))
	r.Use(middleware.Logging(slog.Default()))
	r.Use(middleware.Instrument(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			auth.With(authMiddleware.RequireAuth).Put("/password", h.Auth.ChangePassword)
		})

		api.Post("/calc/compute", h.Calc.Compute)

		api.Route("/calculations", func(calcs chi.Router) {
			calcs.Use(authMiddleware.RequireAuth)
			calcs.Post("/", h.Calc.Create)
			calcs.Get("/", h.Calc.List)
		})
	})

	return r
}
