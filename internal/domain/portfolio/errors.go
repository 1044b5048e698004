package portfolio

import (
	"errors"
	"fmt"
)

// Request validation errors
var (
	ErrMissingPortfolio = errors.New("missing portfolio data")
	ErrUnknownHorizon   = errors.New("unrecognized horizon")
)

// PersistenceError reports a failed batch commit. The batch is all-or-nothing:
// a PersistenceError means none of it was stored.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist holdings batch: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
