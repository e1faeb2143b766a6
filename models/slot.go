package models

import "time"

// TimeSlot is a bookable window within business hours. Slots are derived
// from the opening window and never persisted.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"` // "HH:mm" in the business timezone
}

// BusyInterval is a range already occupied on the calendar. All-day events
// are widened to the day bounds before becoming busy intervals.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// AvailabilityResponse is the payload for the availability endpoint.
type AvailabilityResponse struct {
	Date     string     `json:"date"`
	Timezone string     `json:"timezone"`
	Duration int        `json:"duration"`
	Slots    []TimeSlot `json:"slots"`
}
