package analytics

import "errors"

// Request errors surfaced to the API caller. Statistical degeneracies are
// never errors; only bad parameters and unreadable storage propagate.
var (
	ErrInvalidWindow   = errors.New("analytics: window hours must be a positive integer")
	ErrInvalidHorizon  = errors.New("analytics: horizon hours must be a positive integer")
	ErrUnknownCategory = errors.New("analytics: unknown sample category")
	ErrUnknownMetric   = errors.New("analytics: unknown metric")
	ErrUnknownSection  = errors.New("analytics: unknown report section")
)
