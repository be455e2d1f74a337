package entities

import "errors"

// Validation errors, raised at registration boundaries before any core
// state is mutated.
var (
	ErrInvalidDonation = errors.New("invalid donation")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrDuplicateDonor  = errors.New("duplicate donor id")
	ErrUnknownDonor    = errors.New("unknown donor")
)

// Structural errors, indicating corrupted internal state. Operations that
// hit one must abort without retrying.
var (
	ErrUnknownDonation = errors.New("unknown donation")
	ErrUnknownRequest  = errors.New("unknown request")
)

// ErrEmptyHistory is returned by undo when there is nothing to reverse.
// It is an expected outcome, not a failure.
var ErrEmptyHistory = errors.New("allocation history is empty")
