package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/config"
	"github.com/temcen/cinematch/internal/database"
	"github.com/temcen/cinematch/internal/interactions"
)

type Services struct {
	Auth          *AuthService
	Health        *HealthService
	Metrics       *Metrics
	Collaborative *CollaborativeRecommender
	Sampler       *ContentSampler
	Recommender   *Recommender
	Posters       *PosterService
	Users         UserRanger
}

// New wires the recommendation services over datasets that are already
// loaded. reg receives every collector the services register.
func New(
	cfg *config.Config,
	logger *logrus.Logger,
	db *database.Database,
	store *catalog.Store,
	matrix *interactions.Matrix,
	reg prometheus.Registerer,
) *Services {
	metrics := NewMetrics(reg)

	collaborative := NewCollaborativeRecommender(
		store.Hollywood, matrix, cfg.Recommendation.Neighbors, metrics, logger,
	)
	sampler := NewContentSampler(store.Bollywood, cfg.Recommendation.SourceTag, nil, logger)
	recommender := NewRecommender(collaborative, sampler, metrics, logger)

	var posters *PosterService
	if cfg.Posters.Enabled {
		posters = NewPosterService(&cfg.Posters, db.Redis, metrics, logger)
	}

	return &Services{
		Auth:          NewAuthService(&cfg.Auth, logger),
		Health:        NewHealthService(reg, logger, db, store, matrix),
		Metrics:       metrics,
		Collaborative: collaborative,
		Sampler:       sampler,
		Recommender:   recommender,
		Posters:       posters,
		Users:         matrix.Similarity,
	}
}
