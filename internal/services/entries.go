package services

import (
	"context"

	"github.com/temcen/cinematch/pkg/models"
)

// BuildEntries turns recommender output into ranked display rows, looking up
// one poster per row. posters may be nil.
func BuildEntries(
	ctx context.Context,
	q Query,
	recs []models.Recommendation,
	posters PosterLookup,
) []models.RecommendationEntry {
	entries := make([]models.RecommendationEntry, len(recs))
	for i, rec := range recs {
		entries[i] = models.RecommendationEntry{
			Rank:       i + 1,
			Title:      rec.Title,
			Industry:   string(q.Industry),
			Genre:      q.Genre,
			ScoreOrTag: rec.Signal,
		}
		if posters != nil {
			entries[i].PosterURL = posters.PosterURL(ctx, rec.Title)
		}
	}
	return entries
}
