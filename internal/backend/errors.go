package backend

import "errors"

// Domain errors for the backend package.
var (
	// ErrTransport is returned when a request could not be completed or the
	// backend answered with a non-success HTTP status.
	ErrTransport = errors.New("backend: transport failure")

	// ErrMalformed is returned when a response body is not the expected shape.
	ErrMalformed = errors.New("backend: malformed response")

	// ErrInvalidPlate is returned when a plate argument is empty.
	ErrInvalidPlate = errors.New("backend: invalid plate")
)
