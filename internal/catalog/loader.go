package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	// u.item: id|title|release date|video release date|IMDb URL|19 flags
	movieLensItemColumns = 5 + 19
	// Trimmed exports keep only id|title|19 flags.
	compactItemColumns = 2 + 19
)

// LoadHollywoodFile reads a MovieLens u.item file. The file is Latin-1.
func LoadHollywoodFile(path string) (*Hollywood, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hollywood catalog: %w", err)
	}
	defer f.Close()

	return LoadHollywood(charmap.ISO8859_1.NewDecoder().Reader(f))
}

// LoadHollywood parses pipe-delimited item rows from UTF-8 input.
func LoadHollywood(r io.Reader) (*Hollywood, error) {
	scanner := bufio.NewScanner(r)
	var movies []Movie
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		movie, err := parseItemRow(strings.Split(text, "|"))
		if err != nil {
			return nil, fmt.Errorf("hollywood catalog line %d: %w", line, err)
		}
		movies = append(movies, movie)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hollywood catalog: %w", err)
	}

	return NewHollywood(movies)
}

func parseItemRow(fields []string) (Movie, error) {
	var flagsAt int
	switch {
	case len(fields) >= movieLensItemColumns:
		flagsAt = 5
	case len(fields) == compactItemColumns:
		flagsAt = 2
	default:
		return Movie{}, fmt.Errorf("expected %d or %d columns, got %d",
			movieLensItemColumns, compactItemColumns, len(fields))
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Movie{}, fmt.Errorf("invalid content_id %q: %w", fields[0], err)
	}

	var set GenreSet
	for i := range Genres {
		switch strings.TrimSpace(fields[flagsAt+i]) {
		case "1":
			set |= 1 << i
		case "0", "":
		default:
			return Movie{}, fmt.Errorf("invalid %s flag %q", Genres[i], fields[flagsAt+i])
		}
	}

	return Movie{ID: id, Title: fields[1], Genres: set}, nil
}

func LoadBollywoodFile(path string) (*Bollywood, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bollywood catalog: %w", err)
	}
	defer f.Close()

	return LoadBollywood(f)
}

// LoadBollywood parses a CSV export with at least primaryTitle and genres
// columns. IMDb's "\N" null marker is read as an empty genre.
func LoadBollywood(r io.Reader) (*Bollywood, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("bollywood catalog: %w", ErrEmptyDataset)
		}
		return nil, fmt.Errorf("failed to read bollywood header: %w", err)
	}

	titleCol, genresCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "primaryTitle":
			titleCol = i
		case "genres":
			genresCol = i
		}
	}
	if titleCol < 0 || genresCol < 0 {
		return nil, fmt.Errorf("bollywood catalog: header must contain primaryTitle and genres")
	}

	var movies []BollywoodMovie
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bollywood row: %w", err)
		}

		title := field(record, titleCol)
		if strings.TrimSpace(title) == "" {
			continue
		}
		genres := field(record, genresCol)
		if genres == `\N` {
			genres = ""
		}
		movies = append(movies, BollywoodMovie{PrimaryTitle: title, Genres: genres})
	}

	return NewBollywood(movies)
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
