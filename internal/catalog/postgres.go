package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the catalog loaders need.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

const (
	hollywoodQuery = `SELECT content_id, title, genres FROM hollywood_movies ORDER BY content_id`
	bollywoodQuery = `SELECT primary_title, genres FROM bollywood_movies`
)

// LoadHollywoodPostgres reads Catalog A from a table whose genres column is a
// text[] of genre names.
func LoadHollywoodPostgres(ctx context.Context, db Querier) (*Hollywood, error) {
	rows, err := db.Query(ctx, hollywoodQuery)
	if err != nil {
		return nil, fmt.Errorf("hollywood catalog query failed: %w", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		var (
			id     int
			title  string
			genres []string
		)
		if err := rows.Scan(&id, &title, &genres); err != nil {
			return nil, fmt.Errorf("failed to scan hollywood row: %w", err)
		}
		movies = append(movies, Movie{ID: id, Title: title, Genres: NewGenreSet(genres...)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hollywood catalog rows: %w", err)
	}

	return NewHollywood(movies)
}

func LoadBollywoodPostgres(ctx context.Context, db Querier) (*Bollywood, error) {
	rows, err := db.Query(ctx, bollywoodQuery)
	if err != nil {
		return nil, fmt.Errorf("bollywood catalog query failed: %w", err)
	}
	defer rows.Close()

	var movies []BollywoodMovie
	for rows.Next() {
		var (
			title  string
			genres *string
		)
		if err := rows.Scan(&title, &genres); err != nil {
			return nil, fmt.Errorf("failed to scan bollywood row: %w", err)
		}
		m := BollywoodMovie{PrimaryTitle: title}
		if genres != nil {
			m.Genres = *genres
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bollywood catalog rows: %w", err)
	}

	return NewBollywood(movies)
}

// Store bundles both catalogs.
type Store struct {
	Hollywood *Hollywood
	Bollywood *Bollywood
}
