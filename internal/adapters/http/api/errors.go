package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrBatchLimit    = errors.New("batch size exceeds limit")
)
