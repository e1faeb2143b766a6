package scheduling

import "errors"

var (
	// ErrNotConfigured means the calendar integration is disabled or has no
	// calendar id.
	ErrNotConfigured = errors.New("calendar integration not configured")

	// ErrInvalidDate means the requested date does not parse in the
	// configured timezone.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput means a required booking field is missing or the
	// date/time pair does not parse.
	ErrInvalidInput = errors.New("invalid booking input")

	// ErrInPast means the requested start is older than the submission
	// grace window.
	ErrInPast = errors.New("requested time is in the past")

	// ErrSlotTaken means the requested interval conflicts with an existing
	// calendar event.
	ErrSlotTaken = errors.New("slot not available")

	// ErrUpstream wraps any calendar gateway failure surfaced to callers.
	ErrUpstream = errors.New("calendar upstream failure")
)
