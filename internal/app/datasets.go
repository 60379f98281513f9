package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/config"
	"github.com/temcen/cinematch/internal/database"
	"github.com/temcen/cinematch/internal/interactions"
)

// Datasets holds everything the recommenders read. It is built once at
// startup and never modified.
type Datasets struct {
	Catalog *catalog.Store
	Matrix  *interactions.Matrix
}

// LoadDatasets reads both catalogs from the configured source and the
// interaction matrix from disk. Any missing or malformed dataset is fatal.
func LoadDatasets(ctx context.Context, cfg *config.DataConfig, db *database.Database, logger *logrus.Logger) (*Datasets, error) {
	start := time.Now()

	store, err := loadCatalogs(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	matrix, err := interactions.LoadFiles(cfg.Ratings, cfg.Similarity)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction matrix: %w", err)
	}

	lo, hi := matrix.Similarity.Range()
	logger.WithFields(logrus.Fields{
		"source":          cfg.Source,
		"hollywood_items": store.Hollywood.Len(),
		"bollywood_items": store.Bollywood.Len(),
		"rating_users":    matrix.Ratings.NumUsers(),
		"user_range":      fmt.Sprintf("%d-%d", lo, hi),
		"elapsed":         time.Since(start),
	}).Info("Datasets loaded")

	return &Datasets{Catalog: store, Matrix: matrix}, nil
}

func loadCatalogs(ctx context.Context, cfg *config.DataConfig, db *database.Database) (*catalog.Store, error) {
	switch cfg.Source {
	case "", "file":
		hollywood, err := catalog.LoadHollywoodFile(cfg.HollywoodItems)
		if err != nil {
			return nil, fmt.Errorf("failed to load hollywood catalog: %w", err)
		}
		bollywood, err := catalog.LoadBollywoodFile(cfg.BollywoodItems)
		if err != nil {
			return nil, fmt.Errorf("failed to load bollywood catalog: %w", err)
		}
		return &catalog.Store{Hollywood: hollywood, Bollywood: bollywood}, nil

	case database.SourcePostgres:
		if db == nil || db.PG == nil {
			return nil, fmt.Errorf("data source is postgres but no database connection is configured")
		}
		hollywood, err := catalog.LoadHollywoodPostgres(ctx, db.PG)
		if err != nil {
			return nil, fmt.Errorf("failed to load hollywood catalog: %w", err)
		}
		bollywood, err := catalog.LoadBollywoodPostgres(ctx, db.PG)
		if err != nil {
			return nil, fmt.Errorf("failed to load bollywood catalog: %w", err)
		}
		return &catalog.Store{Hollywood: hollywood, Bollywood: bollywood}, nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}
