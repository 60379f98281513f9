package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Industry selects which catalog serves a request.
type Industry string

const (
	IndustryHollywood Industry = "Hollywood"
	IndustryBollywood Industry = "Bollywood"
)

func (i Industry) Valid() bool {
	return i == IndustryHollywood || i == IndustryBollywood
}

// SignalKind tells a computed affinity score apart from a provenance tag.
type SignalKind int

const (
	SignalScore SignalKind = iota
	SignalSource
)

// Signal is the per-result confidence value. Collaborative results carry a
// numeric score; sampled results carry the catalog they were drawn from.
type Signal struct {
	Kind   SignalKind
	Score  float64
	Source string
}

func ScoreSignal(score float64) Signal {
	return Signal{Kind: SignalScore, Score: score}
}

func SourceSignal(tag string) Signal {
	return Signal{Kind: SignalSource, Source: tag}
}

func (s Signal) IsScore() bool { return s.Kind == SignalScore }

func (s Signal) String() string {
	if s.Kind == SignalSource {
		return s.Source
	}
	return strconv.FormatFloat(s.Score, 'f', -1, 64)
}

// MarshalJSON encodes a score as a JSON number and a source tag as a string.
func (s Signal) MarshalJSON() ([]byte, error) {
	if s.Kind == SignalSource {
		return json.Marshal(s.Source)
	}
	return json.Marshal(s.Score)
}

func (s *Signal) UnmarshalJSON(data []byte) error {
	var score float64
	if err := json.Unmarshal(data, &score); err == nil {
		*s = ScoreSignal(score)
		return nil
	}
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("signal must be a number or a string: %w", err)
	}
	*s = SourceSignal(tag)
	return nil
}

// Recommendation is one entry of a recommender's ordered output.
type Recommendation struct {
	Title  string `json:"title"`
	Signal Signal `json:"signal"`
}

// RecommendationRequest is the caller-facing request, bound from either a
// query string or a JSON body.
type RecommendationRequest struct {
	Industry string `json:"industry" form:"industry" validate:"required,oneof=Hollywood Bollywood"`
	UserID   *int   `json:"user_id,omitempty" form:"user_id" validate:"omitempty,min=0"`
	Count    int    `json:"count" form:"count" validate:"min=1,max=10"`
	Genre    string `json:"genre" form:"genre" validate:"max=64"`
}

// RecommendationEntry is one display row handed back to callers.
type RecommendationEntry struct {
	Rank       int     `json:"rank"`
	Title      string  `json:"title"`
	Industry   string  `json:"industry"`
	Genre      string  `json:"genre"`
	ScoreOrTag Signal  `json:"score_or_tag"`
	PosterURL  *string `json:"poster_url,omitempty"`
}

const (
	StatusOK        = "ok"
	StatusNoMatches = "no_matches"
)

type RecommendationResponse struct {
	RequestID       string                `json:"request_id"`
	Status          string                `json:"status"`
	Industry        string                `json:"industry"`
	Genre           string                `json:"genre"`
	Count           int                   `json:"count"`
	Recommendations []RecommendationEntry `json:"recommendations"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

type GenresResponse struct {
	Genres []string `json:"genres"`
}

type UserRangeResponse struct {
	MinUserID int `json:"min_user_id"`
	MaxUserID int `json:"max_user_id"`
}
