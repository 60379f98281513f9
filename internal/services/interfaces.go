package services

import (
	"context"

	"github.com/temcen/cinematch/pkg/models"
)

// CollaborativeRecommenderInterface defines the rating-based strategy
type CollaborativeRecommenderInterface interface {
	Recommend(ctx context.Context, userID int, n int, genre string) ([]models.Recommendation, error)
}

// ContentSamplerInterface defines the attribute-based sampling strategy
type ContentSamplerInterface interface {
	Recommend(ctx context.Context, n int, genre string) ([]models.Recommendation, error)
}

// RecommenderInterface defines the facade handlers call
type RecommenderInterface interface {
	Recommend(ctx context.Context, q Query) ([]models.Recommendation, error)
}

// PosterLookup resolves a title to a poster URL, or nil when none is
// available. Implementations never fail.
type PosterLookup interface {
	PosterURL(ctx context.Context, title string) *string
}

// UserRanger reports the known range of collaborative user ids
type UserRanger interface {
	Range() (minID, maxID int)
}
