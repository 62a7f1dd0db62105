package api

import (
	"log/slog"
	"net/http"
	"time"

	"lending-analytics/internal/api/handler"
	mw "lending-analytics/internal/api/middleware"
	"lending-analytics/internal/config"
	"lending-analytics/internal/domain/cohort"
	"lending-analytics/internal/domain/dpd"
	"lending-analytics/internal/domain/lifecycle"
	"lending-analytics/internal/domain/portfolio"

	_ "lending-analytics/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(
	assigner *dpd.Assigner,
	classifier *lifecycle.Classifier,
	cohorts *cohort.Builder,
	snapshotService portfolio.SnapshotService,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAnalyticsRoutes(router, cfg, assigner, classifier, cohorts, logger)
	setupSnapshotRoutes(router, cfg, snapshotService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAnalyticsRoutes(
	router *chi.Mux,
	cfg *config.Config,
	assigner *dpd.Assigner,
	classifier *lifecycle.Classifier,
	cohorts *cohort.Builder,
	logger *slog.Logger,
) {
	analyticsHandler := handler.NewAnalyticsHandler(assigner, classifier, cohorts, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/analytics", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/dpd/buckets", analyticsHandler.AssignDPDBuckets)
		r.Post("/customers/lifecycle", analyticsHandler.ClassifyLifecycle)
		r.Post("/cohorts/retention", analyticsHandler.CohortRetention)
	})
}

func setupSnapshotRoutes(router *chi.Mux, cfg *config.Config, svc portfolio.SnapshotService, logger *slog.Logger) {
	h := handler.NewSnapshotHandler(svc, logger)

	router.Route("/snapshots", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateSnapshot)
		r.Get("/{snapshotID}", h.GetSnapshot)
	})
}
