package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/config"
	"github.com/temcen/cinematch/internal/database"
	"github.com/temcen/cinematch/internal/handlers"
	"github.com/temcen/cinematch/internal/middleware"
	"github.com/temcen/cinematch/internal/services"
	"github.com/temcen/cinematch/internal/validation"
)

type App struct {
	config     *config.Config
	logger     *logrus.Logger
	db         *database.Database
	datasets   *Datasets
	services   *services.Services
	handlers   *handlers.Handlers
	validation *middleware.ValidationMiddleware
	registry   *prometheus.Registry
	router     *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	logger := SetupLogger(&cfg.Logging)

	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	datasets, err := LoadDatasets(ctx, &cfg.Data, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return build(cfg, logger, db, datasets)
}

func build(cfg *config.Config, logger *logrus.Logger, db *database.Database, datasets *Datasets) (*App, error) {
	schemas, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load request schemas: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcs := services.New(cfg, logger, db, datasets.Catalog, datasets.Matrix, registry)

	app := &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		datasets:   datasets,
		services:   svcs,
		handlers:   handlers.New(logger, &cfg.Recommendation, svcs),
		validation: middleware.NewValidationMiddleware(schemas),
		registry:   registry,
	}
	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")
	a.db.Close()
	return ctx.Err()
}

// SetupLogger builds the process logger from the logging section.
func SetupLogger(cfg *config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(&a.config.Security.CORS))

	router.GET("/health", a.handlers.Health.Check)

	if a.config.Monitoring.Enabled {
		path := a.config.Monitoring.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry})))
	}

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))

		api.GET("/genres", a.handlers.Catalog.Genres)
		api.GET("/users/range", a.handlers.Catalog.UserRange)

		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("", a.handlers.Recommendation.Get)
			recommendations.POST("", a.validation.ValidateRecommendationRequest(), a.handlers.Recommendation.Create)
		}
	}

	a.router = router
}
