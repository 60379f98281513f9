package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/interactions"
	"github.com/temcen/cinematch/pkg/models"
)

const defaultNeighbors = 5

// CollaborativeRecommender ranks unseen Hollywood titles for a user from the
// ratings of the user's most similar neighbors.
type CollaborativeRecommender struct {
	catalog   *catalog.Hollywood
	matrix    *interactions.Matrix
	neighbors int
	metrics   *Metrics
	logger    *logrus.Logger
}

func NewCollaborativeRecommender(
	catalog *catalog.Hollywood,
	matrix *interactions.Matrix,
	neighbors int,
	metrics *Metrics,
	logger *logrus.Logger,
) *CollaborativeRecommender {
	if neighbors <= 0 {
		neighbors = defaultNeighbors
	}
	return &CollaborativeRecommender{
		catalog:   catalog,
		matrix:    matrix,
		neighbors: neighbors,
		metrics:   metrics,
		logger:    logger,
	}
}

type scoredItem struct {
	itemID int
	score  float64
}

// Recommend returns at most n titles the user has not rated, scored by
// sum(neighbor rating * neighbor similarity). When genre is set only titles
// flagged with it are scored; if that leaves nothing, the unrestricted pass
// is returned instead.
func (r *CollaborativeRecommender) Recommend(
	ctx context.Context,
	userID int,
	n int,
	genre string,
) ([]models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1", ErrInvalidInput)
	}
	if !r.matrix.Similarity.Has(userID) {
		lo, hi := r.matrix.Similarity.Range()
		return nil, fmt.Errorf("%w: user %d is not a known user (known range %d-%d)",
			ErrInvalidInput, userID, lo, hi)
	}

	neighbors, err := r.matrix.Similarity.Neighbors(userID, r.neighbors)
	if err != nil {
		return nil, fmt.Errorf("failed to find neighbors: %w", err)
	}
	watched := r.matrix.Ratings.Rated(userID)

	var candidates map[int]struct{}
	if genre != "" {
		ids := r.catalog.IDsWithGenre(genre)
		candidates = make(map[int]struct{}, len(ids))
		for _, id := range ids {
			candidates[id] = struct{}{}
		}
	}

	recs := r.rank(r.score(neighbors, watched, candidates), n)

	if len(recs) == 0 && candidates != nil {
		r.metrics.Fallback()
		r.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"genre":   genre,
		}).Debug("Genre filter left no candidates, falling back to all titles")

		recs = r.rank(r.score(neighbors, watched, nil), n)
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"genre":     genre,
		"neighbors": len(neighbors),
		"watched":   len(watched),
		"results":   len(recs),
	}).Debug("Collaborative filtering completed")

	return recs, nil
}

// score accumulates neighbor evidence for every unwatched item. A nil
// candidates set admits every item.
func (r *CollaborativeRecommender) score(
	neighbors []interactions.Neighbor,
	watched map[int]float64,
	candidates map[int]struct{},
) []scoredItem {
	scores := make(map[int]float64)
	for _, nb := range neighbors {
		for itemID, rating := range r.matrix.Ratings.Rated(nb.UserID) {
			if _, seen := watched[itemID]; seen {
				continue
			}
			if candidates != nil {
				if _, ok := candidates[itemID]; !ok {
					continue
				}
			}
			scores[itemID] += rating * nb.Similarity
		}
	}

	items := make([]scoredItem, 0, len(scores))
	for id, s := range scores {
		items = append(items, scoredItem{itemID: id, score: s})
	}

	// Ties go to the lower item id so equal scores rank the same way every time.
	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].itemID < items[j].itemID
	})
	return items
}

// rank resolves titles in score order, skipping ids missing from the
// catalog, and stops after n.
func (r *CollaborativeRecommender) rank(items []scoredItem, n int) []models.Recommendation {
	recs := make([]models.Recommendation, 0, min(n, len(items)))
	for _, it := range items {
		title, ok := r.catalog.Title(it.itemID)
		if !ok {
			continue
		}
		recs = append(recs, models.Recommendation{
			Title:  title,
			Signal: models.ScoreSignal(roundScore(it.score)),
		})
		if len(recs) == n {
			break
		}
	}
	return recs
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
