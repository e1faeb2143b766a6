package bookingRepo

import (
	"context"

	"plinio/models"
)

// BookingRepository persists audit copies of confirmed appointments.
type BookingRepository interface {
	Create(ctx context.Context, rec *models.BookingRecord) error
	GetByEventID(ctx context.Context, eventID string) (*models.BookingRecord, error)
	EnsureIndexes() error
}
