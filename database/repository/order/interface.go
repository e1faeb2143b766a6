package orderRepo

import (
	"context"

	"plinio/models"
)

// OrderRepository persists orders created from payment webhooks. Upsert is
// the idempotency boundary: rows are unique on paymentIntentId, so a
// redelivered webhook updates in place.
type OrderRepository interface {
	Upsert(ctx context.Context, order *models.Order) (*models.Order, bool, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	ListRecent(ctx context.Context, limit int64) ([]models.Order, error)
	EnsureIndexes() error
}
