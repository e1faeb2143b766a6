package calendar

import "errors"

var (
	// ErrAuth means credentials are absent or invalid.
	ErrAuth = errors.New("calendar credentials missing or invalid")

	// ErrUnavailable means the remote calendar could not be reached or
	// rejected the request.
	ErrUnavailable = errors.New("calendar unavailable")
)
