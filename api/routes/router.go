package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/daybreak101/ambassador/api/controllers"
	"github.com/daybreak101/ambassador/api/middleware"
	"github.com/daybreak101/ambassador/internal/ambassadors"
	"github.com/daybreak101/ambassador/pkg/config"
	"github.com/daybreak101/ambassador/pkg/db"
	"github.com/daybreak101/ambassador/pkg/logger"
	"github.com/daybreak101/ambassador/pkg/metrics"
	"github.com/daybreak101/ambassador/pkg/redis"
)

// NewRouter wires the ambassador API. redisClient may be nil, in which case
// idempotent creates and the redis readiness check are disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisClient *redis.Client,
	ambassadorService ambassadors.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.FrameAncestors(),
	)

	checks := []controllers.ReadinessCheck{
		{Name: "database", Check: dbP.Ping},
		{Name: "ambassadors", Check: ambassadorService.Ready},
	}
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Check: redisClient.Ping})
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	opts := controllers.AmbassadorOptions{StrictValidation: cfg.Ambassadors.StrictValidation}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.App, cfg.Shopify, logg))

		r.Get("/ambassadors", controllers.AmbassadorList(ambassadorService, logg))
		r.With(middleware.Idempotency(idempotencyStore, cfg.Ambassadors.IdempotencyTTL, logg)).
			Post("/ambassadors", controllers.AmbassadorCreate(ambassadorService, opts, logg))
		r.Get("/ambassadors/pending", controllers.AmbassadorListPending(ambassadorService, logg))

		r.Route("/ambassadors/{id}", func(r chi.Router) {
			r.Use(middleware.AmbassadorOwnership(ambassadorService, logg))
			r.Get("/", controllers.AmbassadorGet(ambassadorService, logg))
			r.Patch("/", controllers.AmbassadorUpdate(ambassadorService, opts, logg))
			r.Delete("/", controllers.AmbassadorDelete(ambassadorService, logg))
			r.Post("/approve", controllers.AmbassadorApprove(ambassadorService, logg))
		})
	})

	return r
}
