package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/pkg/models"
)

const defaultSourceTag = "IMDb"

// ContentSampler draws random Bollywood titles matching a genre. It has no
// ranking signal; every result carries the catalog's source tag.
type ContentSampler struct {
	catalog   *catalog.Bollywood
	sourceTag string
	logger    *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewContentSampler builds a sampler. A nil src seeds a fresh PCG source.
func NewContentSampler(
	catalog *catalog.Bollywood,
	sourceTag string,
	src rand.Source,
	logger *logrus.Logger,
) *ContentSampler {
	if sourceTag == "" {
		sourceTag = defaultSourceTag
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &ContentSampler{
		catalog:   catalog,
		sourceTag: sourceTag,
		logger:    logger,
		rng:       rand.New(src),
	}
}

// Recommend returns a uniform random sample without replacement of up to n
// distinct titles whose genres contain genre.
func (s *ContentSampler) Recommend(ctx context.Context, n int, genre string) ([]models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1", ErrInvalidInput)
	}

	matches := s.catalog.Filter(genre)
	if len(matches) == 0 {
		return []models.Recommendation{}, nil
	}

	// Partial Fisher-Yates: each step draws uniformly from the rows not yet
	// drawn. Rows repeating an already drawn title are skipped.
	recs := make([]models.Recommendation, 0, min(n, len(matches)))
	seen := make(map[string]struct{}, cap(recs))

	s.mu.Lock()
	for i := 0; i < len(matches) && len(recs) < n; i++ {
		j := i + s.rng.IntN(len(matches)-i)
		matches[i], matches[j] = matches[j], matches[i]

		title := matches[i].PrimaryTitle
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		recs = append(recs, models.Recommendation{
			Title:  title,
			Signal: models.SourceSignal(s.sourceTag),
		})
	}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"genre":   genre,
		"matches": len(matches),
		"results": len(recs),
	}).Debug("Content sampling completed")

	return recs, nil
}
