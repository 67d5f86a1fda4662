package fetch

import "errors"

var (
	// ErrNoAttempts is recorded when the retry budget was zero or negative
	// and no request was sent.
	ErrNoAttempts = errors.New("no request attempts allowed")

	// ErrHTTPStatus is recorded when the server answered with status >= 400.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrInvalidRequest is recorded when the request could not be built.
	ErrInvalidRequest = errors.New("invalid request")
)
