package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/castcall-backend/api/controllers"
	"github.com/angelmondragon/castcall-backend/api/middleware"
	"github.com/angelmondragon/castcall-backend/internal/analytics"
	"github.com/angelmondragon/castcall-backend/internal/intake"
	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

type intakeService interface {
	SubmitCasting(ctx context.Context, sub intake.Submission) (*intake.Result, error)
	SubmitSponsor(ctx context.Context, inq intake.SponsorInquiry) (*intake.Result, error)
	Limits() intake.Limits
}

// RateStore backs the submission rate limiter. Nil disables limiting.
type RateStore interface {
	CountInWindow(ctx context.Context, scope string, window time.Duration) (int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	intakeSvc intakeService,
	analyticsService analytics.Service,
	rateStore RateStore,
	registry *prometheus.Registry,
	readiness ...controllers.Dependency,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		chimiddleware.RealIP,
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	castingPolicy := middleware.NewRateLimitPolicy("casting", cfg.RateLimit.Window, cfg.RateLimit.IPLimit, cfg.RateLimit.EmailLimit)
	sponsorPolicy := middleware.NewRateLimitPolicy("sponsor", cfg.RateLimit.Window, cfg.RateLimit.IPLimit, cfg.RateLimit.EmailLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", controllers.PublicConfig(intakeSvc.Limits(), nil))

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBytes(cfg.Intake.MaxRequestBytes(), logg))
			r.With(middleware.SubmitRateLimit(castingPolicy, rateStore, logg)).Post("/casting", controllers.CastingSubmit(intakeSvc, logg))
			r.With(middleware.SubmitRateLimit(sponsorPolicy, rateStore, logg)).Post("/sponsor", controllers.SponsorSubmit(intakeSvc, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(middleware.MaxBytes(analyticsBodyLimit, logg))
			r.Post("/event", controllers.AnalyticsTrack(analyticsService, logg))
			r.Get("/stats", controllers.AnalyticsStats(analyticsService, logg))
		})
	})

	return r
}

const analyticsBodyLimit = 64 << 10
