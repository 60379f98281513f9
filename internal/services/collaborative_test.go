package services

import (
	"context"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/interactions"
	"github.com/temcen/cinematch/pkg/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testHollywood(t *testing.T) *catalog.Hollywood {
	t.Helper()
	h, err := catalog.NewHollywood([]catalog.Movie{
		{ID: 1, Title: "Casablanca (1942)", Genres: catalog.NewGenreSet("Drama", "Romance")},
		{ID: 2, Title: "Vertigo (1958)", Genres: catalog.NewGenreSet("Mystery", "Thriller")},
		{ID: 3, Title: "Fargo (1996)", Genres: catalog.NewGenreSet("Crime", "Drama")},
		{ID: 4, Title: "Toy Story (1995)", Genres: catalog.NewGenreSet("Animation", "Children", "Comedy")},
		{ID: 5, Title: "Airplane! (1980)", Genres: catalog.NewGenreSet("Comedy")},
		{ID: 6, Title: "Scream (1996)", Genres: catalog.NewGenreSet("Horror", "Thriller")},
		{ID: 7, Title: "Heat (1995)", Genres: catalog.NewGenreSet("Action", "Crime")},
	})
	require.NoError(t, err)
	return h
}

// testMatrix builds seven users. User 1 has watched items 1-3; its five
// nearest neighbors are users 2-6. User 7 is the least similar and is the
// only one who rated the Horror title.
func testMatrix(t *testing.T) *interactions.Matrix {
	t.Helper()

	ratings, err := interactions.NewRatings([]interactions.Rating{
		{UserID: 1, ItemID: 1, Value: 4},
		{UserID: 1, ItemID: 2, Value: 5},
		{UserID: 1, ItemID: 3, Value: 3},
		{UserID: 2, ItemID: 4, Value: 5},
		{UserID: 2, ItemID: 5, Value: 1},
		{UserID: 2, ItemID: 8, Value: 5}, // not in the catalog
		{UserID: 3, ItemID: 4, Value: 3},
		{UserID: 3, ItemID: 1, Value: 2},
		{UserID: 4, ItemID: 1, Value: 5},
		{UserID: 5, ItemID: 7, Value: 4},
		{UserID: 6, ItemID: 2, Value: 4},
		{UserID: 7, ItemID: 6, Value: 5},
	})
	require.NoError(t, err)

	users := []int{1, 2, 3, 4, 5, 6, 7}
	first := []float64{1, 0.8, 0.5, 0.3, 0.2, 0.1, 0.05}
	data := mat.NewDense(len(users), len(users), nil)
	for i := range users {
		data.Set(i, i, 1)
	}
	for j := 1; j < len(users); j++ {
		data.Set(0, j, first[j])
		data.Set(j, 0, first[j])
	}
	similarity, err := interactions.NewSimilarity(users, data)
	require.NoError(t, err)

	matrix, err := interactions.NewMatrix(ratings, similarity)
	require.NoError(t, err)
	return matrix
}

func titles(recs []models.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestCollaborativeRecommender_Recommend(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	rec := NewCollaborativeRecommender(testHollywood(t), testMatrix(t), 5, metrics, quietLogger())

	t.Run("weighted neighbor score", func(t *testing.T) {
		recs, err := rec.Recommend(context.Background(), 1, 5, "")
		require.NoError(t, err)

		// Item 4: 5*0.8 + 3*0.5 = 5.5. Items 5 and 7 tie at 0.8 and are
		// ordered by id. Item 8 scores 4.0 but has no title, and item 6 is
		// only rated by user 7, who is not among the top five.
		require.Len(t, recs, 3)
		assert.Equal(t, []string{"Toy Story (1995)", "Airplane! (1980)", "Heat (1995)"}, titles(recs))
		assert.True(t, recs[0].Signal.IsScore())
		assert.Equal(t, 5.5, recs[0].Signal.Score)
		assert.Equal(t, 0.8, recs[1].Signal.Score)
		assert.Equal(t, 0.8, recs[2].Signal.Score)
	})

	t.Run("never recommends watched items", func(t *testing.T) {
		recs, err := rec.Recommend(context.Background(), 1, 10, "")
		require.NoError(t, err)
		for _, title := range titles(recs) {
			assert.NotContains(t, []string{"Casablanca (1942)", "Vertigo (1958)", "Fargo (1996)"}, title)
		}
	})

	t.Run("truncates to n", func(t *testing.T) {
		recs, err := rec.Recommend(context.Background(), 1, 1, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Toy Story (1995)"}, titles(recs))
	})

	t.Run("genre restricts candidates without falling back", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.fallbacks)

		recs, err := rec.Recommend(context.Background(), 1, 5, "Crime")
		require.NoError(t, err)

		assert.Equal(t, []string{"Heat (1995)"}, titles(recs))
		assert.Equal(t, before, testutil.ToFloat64(metrics.fallbacks))
	})

	t.Run("empty genre pass falls back to all titles", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.fallbacks)

		recs, err := rec.Recommend(context.Background(), 1, 5, "Horror")
		require.NoError(t, err)

		assert.Equal(t, []string{"Toy Story (1995)", "Airplane! (1980)", "Heat (1995)"}, titles(recs))
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.fallbacks))
	})

	t.Run("unknown genre falls back", func(t *testing.T) {
		recs, err := rec.Recommend(context.Background(), 1, 2, "Bollywood Masala")
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := rec.Recommend(context.Background(), 99, 5, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "1-7")
	})

	t.Run("count below one", func(t *testing.T) {
		_, err := rec.Recommend(context.Background(), 1, 0, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := rec.Recommend(ctx, 1, 5, "")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCollaborativeRecommender_NothingUnwatched(t *testing.T) {
	ratings, err := interactions.NewRatings([]interactions.Rating{
		{UserID: 1, ItemID: 1, Value: 5},
		{UserID: 2, ItemID: 1, Value: 4},
	})
	require.NoError(t, err)
	similarity, err := interactions.NewSimilarity([]int{1, 2}, mat.NewDense(2, 2, []float64{1, 0.9, 0.9, 1}))
	require.NoError(t, err)
	matrix, err := interactions.NewMatrix(ratings, similarity)
	require.NoError(t, err)

	rec := NewCollaborativeRecommender(testHollywood(t), matrix, 5, nil, quietLogger())

	recs, err := rec.Recommend(context.Background(), 1, 5, "Drama")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestCollaborativeRecommender_DefaultNeighbors(t *testing.T) {
	rec := NewCollaborativeRecommender(testHollywood(t), testMatrix(t), 0, nil, quietLogger())
	assert.Equal(t, defaultNeighbors, rec.neighbors)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 5.5, roundScore(5.5))
	assert.Equal(t, 1.23, roundScore(1.2345))
	assert.Equal(t, 0.67, roundScore(2.0/3.0))
}
