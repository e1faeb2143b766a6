package notification

import (
	"context"
	"time"

	"plinio/models"
)

// NotificationService sends transactional email for the site. Enqueue*
// methods hand the message to the background worker and never block the
// calling request on the email provider; Send delivers synchronously and is
// what the worker itself calls.
type NotificationService interface {
	Send(ctx context.Context, payload models.EmailPayload) error
	EnqueueBookingConfirmation(rec models.BookingRecord) error
	EnqueueDeliveryEmail(to, productName, deliveryURL string, expiresAt time.Time) error
	SendContactNotification(ctx context.Context, req models.ContactRequest) error
	Configured() bool
}
