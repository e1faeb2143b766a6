package tokenRepo

import (
	"context"

	"plinio/models"
)

// TokenRepository persists delivery tokens. Redemption accounting must go
// through ConsumeRedemption, a guarded atomic increment at the store, so two
// concurrent final downloads cannot both succeed.
type TokenRepository interface {
	Create(ctx context.Context, token *models.DeliveryToken) error
	GetByHash(ctx context.Context, tokenHash string) (*models.DeliveryToken, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryToken, error)
	ConsumeRedemption(ctx context.Context, tokenHash string) error
	Revoke(ctx context.Context, id string) error
	EnsureIndexes() error
}
