package parking

import "errors"

// Domain errors for the parking package.
var (
	// ErrSnapshotNotFound is returned when no session snapshot has been saved.
	ErrSnapshotNotFound = errors.New("parking: snapshot not found")

	// ErrInvalidPlate is returned when a plate normalizes to nothing.
	ErrInvalidPlate = errors.New("parking: invalid plate")
)
