package catalog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestGenreSet(t *testing.T) {
	set := NewGenreSet("Action", "Horror", "NotAGenre")

	assert.True(t, set.Has("Action"))
	assert.True(t, set.Has("Horror"))
	assert.False(t, set.Has("Comedy"))
	assert.False(t, set.Has("NotAGenre"))
	assert.Equal(t, []string{"Action", "Horror"}, set.Names())
}

func TestCanonicalGenre(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		found bool
	}{
		{"Horror", "Horror", true},
		{"horror", "Horror", true},
		{" sci-fi ", "Sci-Fi", true},
		{"film-noir", "Film-Noir", true},
		{"Bhangra", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalGenre(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectableGenres(t *testing.T) {
	genres := SelectableGenres()
	assert.Len(t, genres, 18)
	assert.Equal(t, "Action", genres[0])
	assert.NotContains(t, genres, "unknown")

	genres[0] = "changed"
	assert.Equal(t, "Action", SelectableGenres()[0])
}

func TestNewHollywood(t *testing.T) {
	t.Run("empty catalog is rejected", func(t *testing.T) {
		_, err := NewHollywood(nil)
		assert.True(t, errors.Is(err, ErrEmptyDataset))
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		_, err := NewHollywood([]Movie{{ID: 1, Title: "A"}, {ID: 1, Title: "B"}})
		assert.Error(t, err)
	})

	t.Run("indexes titles and genres", func(t *testing.T) {
		h, err := NewHollywood([]Movie{
			{ID: 3, Title: "  Scream (1996) ", Genres: NewGenreSet("Horror", "Thriller")},
			{ID: 1, Title: "Toy Story (1995)", Genres: NewGenreSet("Animation", "Children", "Comedy")},
			{ID: 2, Title: "GoldenEye (1995)", Genres: NewGenreSet("Action", "Thriller")},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, h.Len())
		assert.Equal(t, []int{1, 2, 3}, h.IDs())
		assert.Equal(t, []int{2, 3}, h.IDsWithGenre("Thriller"))
		assert.Empty(t, h.IDsWithGenre("Western"))
		assert.Empty(t, h.IDsWithGenre("Bogus"))

		title, ok := h.Title(3)
		assert.True(t, ok)
		assert.Equal(t, "Scream (1996)", title)

		_, ok = h.Title(99)
		assert.False(t, ok)
	})
}

const uItem = `1|Toy Story (1995)|01-Jan-1995||http://us.imdb.com/M/title-exact?Toy%20Story%20(1995)|0|0|0|1|1|1|0|0|0|0|0|0|0|0|0|0|0|0|0
2|GoldenEye (1995)|01-Jan-1995||http://us.imdb.com/M/title-exact?GoldenEye%20(1995)|0|1|1|0|0|0|0|0|0|0|0|0|0|0|0|0|1|0|0

5|Copycat (1995)|01-Jan-1995||http://us.imdb.com/M/title-exact?Copycat%20(1995)|0|0|0|0|0|0|1|0|1|0|0|0|0|0|0|0|1|0|0
`

func TestLoadHollywood(t *testing.T) {
	t.Run("MovieLens layout", func(t *testing.T) {
		h, err := LoadHollywood(strings.NewReader(uItem))
		require.NoError(t, err)

		assert.Equal(t, 3, h.Len())
		m, ok := h.Movie(2)
		require.True(t, ok)
		assert.Equal(t, "GoldenEye (1995)", m.Title)
		assert.Equal(t, []string{"Action", "Adventure", "Thriller"}, m.Genres.Names())
		assert.Equal(t, []int{5}, h.IDsWithGenre("Crime"))
	})

	t.Run("compact layout", func(t *testing.T) {
		row := "7|Twelve Monkeys (1995)|0|0|0|0|0|0|0|0|1|0|0|0|0|0|0|1|0|0|0\n"
		h, err := LoadHollywood(strings.NewReader(row))
		require.NoError(t, err)

		m, ok := h.Movie(7)
		require.True(t, ok)
		assert.Equal(t, []string{"Drama", "Sci-Fi"}, m.Genres.Names())
	})

	t.Run("latin-1 titles are decoded", func(t *testing.T) {
		row := "9|Belle de jour (1967)|0|0|0|0|0|0|0|0|1|0|0|0|0|0|0|0|0|0|0\n" +
			"10|Café au lait (1993)|0|0|0|0|0|1|0|0|0|0|0|0|0|0|0|0|0|0|0\n"
		encoded, err := charmap.ISO8859_1.NewEncoder().String(row)
		require.NoError(t, err)

		h, err := LoadHollywood(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewBufferString(encoded)))
		require.NoError(t, err)

		title, _ := h.Title(10)
		assert.Equal(t, "Café au lait (1993)", title)
	})

	t.Run("malformed rows fail", func(t *testing.T) {
		_, err := LoadHollywood(strings.NewReader("1|Short|0|1\n"))
		assert.Error(t, err)

		_, err = LoadHollywood(strings.NewReader("x|Bad id|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0|0\n"))
		assert.Error(t, err)
	})

	t.Run("empty input is fatal", func(t *testing.T) {
		_, err := LoadHollywood(strings.NewReader("\n"))
		assert.True(t, errors.Is(err, ErrEmptyDataset))
	})
}

const bollywoodCSV = `tconst,primaryTitle,startYear,genres
tt0001,  Sholay ,1975,"Action,Adventure,Comedy"
tt0002,Lagaan,2001,"Drama,Musical,Sport"
tt0003,Raaz,2002,Horror
tt0004,Untitled Project,2003,\N
tt0005,,2004,Drama
`

func TestLoadBollywood(t *testing.T) {
	b, err := LoadBollywood(strings.NewReader(bollywoodCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, b.Len())

	action := b.Filter("action")
	require.Len(t, action, 1)
	assert.Equal(t, "Sholay", action[0].PrimaryTitle)

	assert.Len(t, b.Filter("DRAMA"), 1)
	assert.Len(t, b.Filter(""), 4)
	assert.Empty(t, b.Filter("Western"))

	t.Run("missing columns", func(t *testing.T) {
		_, err := LoadBollywood(strings.NewReader("title,genre\nA,B\n"))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := LoadBollywood(strings.NewReader("primaryTitle,genres\n"))
		assert.True(t, errors.Is(err, ErrEmptyDataset))
	})
}

func TestBollywoodFilterExcludesMissingGenres(t *testing.T) {
	b, err := NewBollywood([]BollywoodMovie{
		{PrimaryTitle: "Has Genre", Genres: "Romance"},
		{PrimaryTitle: "No Genre"},
	})
	require.NoError(t, err)

	got := b.Filter("o")
	require.Len(t, got, 1)
	assert.Equal(t, "Has Genre", got[0].PrimaryTitle)
}

func strPtr(s string) *string { return &s }

func TestLoadHollywoodPostgres(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"content_id", "title", "genres"}).
		AddRow(1, "Toy Story (1995)", []string{"Animation", "Children", "Comedy"}).
		AddRow(11, "Seven (Se7en) (1995)", []string{"Crime", "Thriller"})

	mock.ExpectQuery("SELECT content_id, title, genres FROM hollywood_movies").WillReturnRows(rows)

	h, err := LoadHollywoodPostgres(context.Background(), mock)
	require.NoError(t, err)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []int{11}, h.IDsWithGenre("Crime"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadHollywoodPostgres_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT content_id").WillReturnError(errors.New("connection refused"))

	_, err = LoadHollywoodPostgres(context.Background(), mock)
	assert.ErrorContains(t, err, "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadBollywoodPostgres(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"primary_title", "genres"}).
		AddRow("Sholay", strPtr("Action,Adventure")).
		AddRow("Untitled", nil)

	mock.ExpectQuery("SELECT primary_title, genres FROM bollywood_movies").WillReturnRows(rows)

	b, err := LoadBollywoodPostgres(context.Background(), mock)
	require.NoError(t, err)

	assert.Equal(t, 2, b.Len())
	assert.Len(t, b.Filter("adventure"), 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
