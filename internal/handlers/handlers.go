package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/config"
	"github.com/temcen/cinematch/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Recommendation *RecommendationHandler
	Catalog        *CatalogHandler
}

func New(logger *logrus.Logger, cfg *config.RecommendationConfig, svcs *services.Services) *Handlers {
	var posters services.PosterLookup
	if svcs.Posters != nil {
		posters = svcs.Posters
	}

	return &Handlers{
		Health:         NewHealthHandler(logger, svcs.Health),
		Recommendation: NewRecommendationHandler(svcs.Recommender, posters, cfg.DefaultCount, cfg.MaxCount, logger),
		Catalog:        NewCatalogHandler(svcs.Users),
	}
}
