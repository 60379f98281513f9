package services

import "errors"

var (
	// ErrInvalidInput marks a request that violates the recommender's
	// contract, such as a user id outside the known range.
	ErrInvalidInput = errors.New("invalid input")

	ErrUnknownCatalog = errors.New("unknown catalog")
)
