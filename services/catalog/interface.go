package catalog

import (
	"context"
	"errors"

	"plinio/models"
)

// ErrUnknownProduct means an id does not map to any sellable item.
var ErrUnknownProduct = errors.New("unknown product")

// CatalogService exposes the digital-goods catalog. The catalog itself
// lives at the commerce provider; this service fetches, normalizes and
// caches it.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.StoreProduct, error)
	GetProduct(ctx context.Context, id string) (*models.StoreProduct, error)
}
