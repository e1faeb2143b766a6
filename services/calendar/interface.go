package calendar

import (
	"context"
	"time"
)

// Event is a calendar event projected down to what availability needs.
// All-day events carry only their date; the caller widens them to day bounds.
type Event struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

// EventInput describes a new appointment event.
type EventInput struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	Timezone      string
	AttendeeEmail string
	AttendeeName  string
	SendUpdates   string // "all", "externalOnly" or "none"
}

// Gateway abstracts the remote calendar. Both operations carry a bounded
// timeout and are never retried internally.
type Gateway interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, calendarID string, input EventInput) (string, error)
}
