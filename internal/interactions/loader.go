package interactions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix bundles the read-only rating matrix and similarity table.
type Matrix struct {
	Ratings    *Ratings
	Similarity *Similarity
}

func NewMatrix(ratings *Ratings, similarity *Similarity) (*Matrix, error) {
	if ratings == nil || ratings.NumUsers() == 0 {
		return nil, fmt.Errorf("rating matrix: %w", ErrEmptyDataset)
	}
	if similarity == nil || similarity.NumUsers() == 0 {
		return nil, fmt.Errorf("similarity table: %w", ErrEmptyDataset)
	}
	return &Matrix{Ratings: ratings, Similarity: similarity}, nil
}

// LoadFiles reads a u.data rating file and a dense similarity CSV.
func LoadFiles(ratingsPath, similarityPath string) (*Matrix, error) {
	rf, err := os.Open(ratingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rating matrix: %w", err)
	}
	defer rf.Close()

	ratings, err := LoadRatings(rf)
	if err != nil {
		return nil, err
	}

	sf, err := os.Open(similarityPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open similarity table: %w", err)
	}
	defer sf.Close()

	similarity, err := LoadSimilarity(sf)
	if err != nil {
		return nil, err
	}

	return NewMatrix(ratings, similarity)
}

// LoadRatings parses MovieLens u.data rows: user, item, rating and an
// ignored timestamp, separated by tabs.
func LoadRatings(r io.Reader) (*Ratings, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var ratings []Rating
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rating matrix: %w", err)
		}
		if len(record) < 3 {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("rating matrix line %d: expected at least 3 columns", line)
		}

		userID, err1 := strconv.Atoi(strings.TrimSpace(record[0]))
		itemID, err2 := strconv.Atoi(strings.TrimSpace(record[1]))
		value, err3 := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("rating matrix line %d: %w", line, err)
		}

		ratings = append(ratings, Rating{UserID: userID, ItemID: itemID, Value: value})
	}

	return NewRatings(ratings)
}

// LoadSimilarity parses a dense CSV exported by the offline training step.
// The header is a label followed by user ids; each following row is a user
// id followed by that user's similarity to every header user. Rows may come
// in any order but must cover exactly the header users.
func LoadSimilarity(r io.Reader) (*Similarity, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("similarity table: %w", ErrEmptyDataset)
		}
		return nil, fmt.Errorf("failed to read similarity header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("similarity table: %w", ErrEmptyDataset)
	}

	users := make([]int, len(header)-1)
	column := make(map[int]int, len(users))
	for i, h := range header[1:] {
		id, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("similarity header column %d: %w", i+1, err)
		}
		users[i] = id
		column[id] = i
	}

	n := len(users)
	data := mat.NewDense(n, n, nil)
	seen := make([]bool, n)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read similarity row: %w", err)
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("similarity row user id: %w", err)
		}
		row, ok := column[id]
		if !ok {
			return nil, fmt.Errorf("similarity row for user %d missing from header", id)
		}
		if seen[row] {
			return nil, fmt.Errorf("similarity row for user %d repeated", id)
		}
		seen[row] = true

		for j, v := range record[1:] {
			sim, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("similarity row for user %d column %d: %w", id, j+1, err)
			}
			data.Set(row, j, sim)
		}
	}

	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("similarity table: no row for user %d", users[i])
		}
	}

	return NewSimilarity(users, data)
}
