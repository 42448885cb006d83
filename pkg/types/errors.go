package types

import "errors"

// Pipeline errors. Load and persistence failures stop the run immediately;
// ErrValidationFailed means the run completed validation but at least one
// constraint did not pass, so the entity tables were not committed.
var (
	ErrValidationFailed = errors.New("data validation check has failed")
	ErrMalformedSource  = errors.New("malformed source record")
	ErrColumnNotFound   = errors.New("column not found")
)
