package catalog

import "strings"

// Genres is the fixed, ordered list of genre indicator columns in u.item.
var Genres = []string{
	"unknown", "Action", "Adventure", "Animation", "Children", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "Film-Noir", "Horror", "Musical", "Mystery",
	"Romance", "Sci-Fi", "Thriller", "War", "Western",
}

var genreIndex = func() map[string]int {
	idx := make(map[string]int, len(Genres))
	for i, g := range Genres {
		idx[g] = i
	}
	return idx
}()

// SelectableGenres returns the genres offered to callers; "unknown" is a
// data-quality flag, not a genre anyone asks for.
func SelectableGenres() []string {
	out := make([]string, len(Genres)-1)
	copy(out, Genres[1:])
	return out
}

// CanonicalGenre resolves a genre name case-insensitively to its column name.
func CanonicalGenre(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := genreIndex[name]; ok {
		return name, true
	}
	for _, g := range Genres {
		if strings.EqualFold(g, name) {
			return g, true
		}
	}
	return "", false
}

// GenreSet is a bitmask over Genres.
type GenreSet uint32

func NewGenreSet(names ...string) GenreSet {
	var s GenreSet
	for _, n := range names {
		if i, ok := genreIndex[n]; ok {
			s |= 1 << i
		}
	}
	return s
}

func (s GenreSet) Has(genre string) bool {
	i, ok := genreIndex[genre]
	if !ok {
		return false
	}
	return s&(1<<i) != 0
}

// Names lists the set's genres in column order.
func (s GenreSet) Names() []string {
	var names []string
	for i, g := range Genres {
		if s&(1<<i) != 0 {
			names = append(names, g)
		}
	}
	return names
}
