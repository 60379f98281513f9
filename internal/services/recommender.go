package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/pkg/models"
)

// Query is a single recommendation request as seen by the facade.
type Query struct {
	Industry models.Industry
	UserID   *int
	Count    int
	Genre    string
}

// Recommender routes a query to the strategy that serves its catalog.
type Recommender struct {
	collaborative CollaborativeRecommenderInterface
	sampler       ContentSamplerInterface
	metrics       *Metrics
	logger        *logrus.Logger
}

func NewRecommender(
	collaborative CollaborativeRecommenderInterface,
	sampler ContentSamplerInterface,
	metrics *Metrics,
	logger *logrus.Logger,
) *Recommender {
	return &Recommender{
		collaborative: collaborative,
		sampler:       sampler,
		metrics:       metrics,
		logger:        logger,
	}
}

// Recommend returns the ordered results for q. An empty, non-nil slice means
// nothing matched; that is not an error.
func (r *Recommender) Recommend(ctx context.Context, q Query) ([]models.Recommendation, error) {
	start := time.Now()

	var (
		recs []models.Recommendation
		err  error
	)
	switch q.Industry {
	case models.IndustryHollywood:
		if q.UserID == nil {
			err = fmt.Errorf("%w: user_id is required for %s", ErrInvalidInput, q.Industry)
			break
		}
		recs, err = r.collaborative.Recommend(ctx, *q.UserID, q.Count, q.Genre)
	case models.IndustryBollywood:
		recs, err = r.sampler.Recommend(ctx, q.Count, q.Genre)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCatalog, q.Industry)
	}

	elapsed := time.Since(start)
	fields := logrus.Fields{
		"industry": q.Industry,
		"genre":    q.Genre,
		"count":    q.Count,
		"latency":  elapsed,
	}
	if q.UserID != nil {
		fields["user_id"] = *q.UserID
	}

	if err != nil {
		outcome := OutcomeError
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnknownCatalog) {
			outcome = OutcomeInvalid
		}
		r.metrics.ObserveRequest(string(q.Industry), outcome, 0, elapsed)
		r.logger.WithFields(fields).WithError(err).Warn("Recommendation request rejected")
		return nil, err
	}

	if recs == nil {
		recs = []models.Recommendation{}
	}

	outcome := OutcomeOK
	if len(recs) == 0 {
		outcome = OutcomeNoMatches
	}
	r.metrics.ObserveRequest(string(q.Industry), outcome, len(recs), elapsed)
	fields["results"] = len(recs)
	r.logger.WithFields(fields).Debug("Recommendations generated")

	return recs, nil
}
