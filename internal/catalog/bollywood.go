package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// BollywoodMovie is a Catalog B item. Genres is free text such as
// "Action,Drama"; it may be empty.
type BollywoodMovie struct {
	PrimaryTitle string `json:"primary_title"`
	Genres       string `json:"genres"`
}

// Bollywood is the attribute-only catalog. It is immutable once built.
type Bollywood struct {
	movies []BollywoodMovie
	lower  []string
}

func NewBollywood(movies []BollywoodMovie) (*Bollywood, error) {
	if len(movies) == 0 {
		return nil, fmt.Errorf("bollywood catalog: %w", ErrEmptyDataset)
	}

	b := &Bollywood{
		movies: make([]BollywoodMovie, len(movies)),
		lower:  make([]string, len(movies)),
	}
	for i, m := range movies {
		m.PrimaryTitle = NormalizeTitle(m.PrimaryTitle)
		m.Genres = strings.TrimSpace(m.Genres)
		b.movies[i] = m
		b.lower[i] = strings.ToLower(m.Genres)
	}
	return b, nil
}

func (b *Bollywood) Len() int { return len(b.movies) }

// Filter returns the movies whose genres contain genre as a case-insensitive
// substring. Movies without genres never match a non-empty filter. An empty
// genre returns every movie.
func (b *Bollywood) Filter(genre string) []BollywoodMovie {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" {
		out := make([]BollywoodMovie, len(b.movies))
		copy(out, b.movies)
		return out
	}

	var out []BollywoodMovie
	for i, g := range b.lower {
		if g != "" && strings.Contains(g, genre) {
			out = append(out, b.movies[i])
		}
	}
	return out
}

// NormalizeTitle trims and NFC-normalizes a display title.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}
