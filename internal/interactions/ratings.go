package interactions

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyDataset is returned when the rating matrix or similarity table
// would be built with no rows.
var ErrEmptyDataset = errors.New("empty dataset")

// Rating is one explicit (user, item) rating.
type Rating struct {
	UserID int
	ItemID int
	Value  float64
}

// Ratings is a sparse user x item matrix. Pairs that were never set read as
// 0, meaning unwatched. Only positive ratings are stored.
type Ratings struct {
	byUser map[int]map[int]float64
	users  []int
}

func NewRatings(ratings []Rating) (*Ratings, error) {
	if len(ratings) == 0 {
		return nil, fmt.Errorf("rating matrix: %w", ErrEmptyDataset)
	}

	r := &Ratings{byUser: make(map[int]map[int]float64)}
	for _, rt := range ratings {
		row, ok := r.byUser[rt.UserID]
		if !ok {
			row = make(map[int]float64)
			r.byUser[rt.UserID] = row
			r.users = append(r.users, rt.UserID)
		}
		if rt.Value > 0 {
			row[rt.ItemID] = rt.Value
		} else {
			delete(row, rt.ItemID)
		}
	}
	sort.Ints(r.users)

	return r, nil
}

// Get returns the rating for a pair, or 0 when unset.
func (r *Ratings) Get(userID, itemID int) float64 {
	return r.byUser[userID][itemID]
}

// Rated returns the items userID rated above 0. The map is shared and must
// not be modified.
func (r *Ratings) Rated(userID int) map[int]float64 {
	return r.byUser[userID]
}

func (r *Ratings) Users() []int { return r.users }

func (r *Ratings) NumUsers() int { return len(r.users) }
