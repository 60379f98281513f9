package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyDataset is returned when a catalog would be built with no rows.
var ErrEmptyDataset = errors.New("empty dataset")

// Movie is a Catalog A item.
type Movie struct {
	ID     int      `json:"content_id"`
	Title  string   `json:"title"`
	Genres GenreSet `json:"genres"`
}

// Hollywood is the rating-backed catalog. It is immutable once built.
type Hollywood struct {
	movies  map[int]Movie
	ids     []int
	byGenre map[string][]int
}

func NewHollywood(movies []Movie) (*Hollywood, error) {
	if len(movies) == 0 {
		return nil, fmt.Errorf("hollywood catalog: %w", ErrEmptyDataset)
	}

	h := &Hollywood{
		movies:  make(map[int]Movie, len(movies)),
		ids:     make([]int, 0, len(movies)),
		byGenre: make(map[string][]int),
	}
	for _, m := range movies {
		if _, dup := h.movies[m.ID]; dup {
			return nil, fmt.Errorf("hollywood catalog: duplicate content_id %d", m.ID)
		}
		m.Title = NormalizeTitle(m.Title)
		h.movies[m.ID] = m
		h.ids = append(h.ids, m.ID)
	}
	sort.Ints(h.ids)

	for _, id := range h.ids {
		for _, g := range h.movies[id].Genres.Names() {
			h.byGenre[g] = append(h.byGenre[g], id)
		}
	}

	return h, nil
}

func (h *Hollywood) Len() int { return len(h.ids) }

func (h *Hollywood) Movie(id int) (Movie, bool) {
	m, ok := h.movies[id]
	return m, ok
}

func (h *Hollywood) Title(id int) (string, bool) {
	m, ok := h.movies[id]
	return m.Title, ok
}

// IDs returns every content id in ascending order. Callers must not modify
// the returned slice.
func (h *Hollywood) IDs() []int { return h.ids }

// IDsWithGenre returns the ascending ids flagged with genre. An unknown genre
// yields no ids.
func (h *Hollywood) IDsWithGenre(genre string) []int {
	return h.byGenre[genre]
}
