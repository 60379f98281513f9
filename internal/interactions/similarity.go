package interactions

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Neighbor is another user ranked by similarity to a target user.
type Neighbor struct {
	UserID     int
	Similarity float64
}

// Similarity is a dense user x user similarity table. Row i and column i
// belong to users[i].
type Similarity struct {
	users []int
	index map[int]int
	data  *mat.Dense
}

// NewSimilarity wraps a square matrix whose rows and columns follow users.
func NewSimilarity(users []int, data *mat.Dense) (*Similarity, error) {
	if len(users) == 0 || data == nil {
		return nil, fmt.Errorf("similarity table: %w", ErrEmptyDataset)
	}

	r, c := data.Dims()
	if r != c || r != len(users) {
		return nil, fmt.Errorf("similarity table: %dx%d matrix for %d users", r, c, len(users))
	}

	s := &Similarity{
		users: append([]int(nil), users...),
		index: make(map[int]int, len(users)),
		data:  data,
	}
	for i, u := range users {
		if _, dup := s.index[u]; dup {
			return nil, fmt.Errorf("similarity table: duplicate user %d", u)
		}
		s.index[u] = i
		if floats.HasNaN(data.RawRowView(i)) {
			return nil, fmt.Errorf("similarity table: NaN in row for user %d", u)
		}
	}

	return s, nil
}

func (s *Similarity) Has(userID int) bool {
	_, ok := s.index[userID]
	return ok
}

func (s *Similarity) NumUsers() int { return len(s.users) }

// Range returns the smallest and largest user id in the table.
func (s *Similarity) Range() (minID, maxID int) {
	minID, maxID = s.users[0], s.users[0]
	for _, u := range s.users[1:] {
		minID = min(minID, u)
		maxID = max(maxID, u)
	}
	return minID, maxID
}

// Get returns the similarity between two users.
func (s *Similarity) Get(a, b int) (float64, bool) {
	i, ok := s.index[a]
	if !ok {
		return 0, false
	}
	j, ok := s.index[b]
	if !ok {
		return 0, false
	}
	return s.data.At(i, j), true
}

// Neighbors returns up to k users most similar to userID, highest first.
// userID itself is always excluded, whatever its self-similarity. Equal
// similarities are ordered by ascending user id.
func (s *Similarity) Neighbors(userID, k int) ([]Neighbor, error) {
	i, ok := s.index[userID]
	if !ok {
		return nil, fmt.Errorf("user %d not in similarity table", userID)
	}

	row := mat.Row(nil, i, s.data)
	neighbors := make([]Neighbor, 0, len(row)-1)
	for j, sim := range row {
		if s.users[j] == userID {
			continue
		}
		neighbors = append(neighbors, Neighbor{UserID: s.users[j], Similarity: sim})
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Similarity != neighbors[b].Similarity {
			return neighbors[a].Similarity > neighbors[b].Similarity
		}
		return neighbors[a].UserID < neighbors[b].UserID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}
