package models

import "time"

// BookingRequest is the transient client input for a new appointment.
type BookingRequest struct {
	Service string `json:"service"`
	Date    string `json:"date"` // "YYYY-MM-DD"
	Time    string `json:"time"` // "HH:mm"
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes,omitempty"`
}

// BookingRecord is the audit copy of a confirmed appointment. The calendar
// event is the source of truth; this row is best-effort.
type BookingRecord struct {
	ID              string    `bson:"id" json:"id"`
	ExternalEventID string    `bson:"externalEventId" json:"externalEventId"`
	Name            string    `bson:"name" json:"name"`
	Email           string    `bson:"email" json:"email"`
	Phone           string    `bson:"phone" json:"phone"`
	Service         string    `bson:"service" json:"service"`
	StartAt         time.Time `bson:"startAt" json:"startAt"`
	EndAt           time.Time `bson:"endAt" json:"endAt"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          string    `bson:"status" json:"status"` // always "confirmed" once written
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// BookingConfirmation is returned to the client on success.
type BookingConfirmation struct {
	EventID string    `json:"eventId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}
