package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	tokenRepo "plinio/database/repository/token"
	"plinio/services/catalog"
	"plinio/utils"
)

// Asset is a ready-to-stream download. The caller owns Body.
type Asset struct {
	Body               io.ReadCloser
	ContentType        string
	ContentDisposition string
	ContentLength      int64
}

// DeliveryService validates and redeems delivery tokens.
type DeliveryService interface {
	Redeem(ctx context.Context, tokenPlaintext string) (*Asset, error)
}

// DefaultDeliveryService is the production implementation.
type DefaultDeliveryService struct {
	Tokens  tokenRepo.TokenRepository
	Catalog catalog.CatalogService
	HTTP    *http.Client
}

func NewDefaultDeliveryService(tokens tokenRepo.TokenRepository, cat catalog.CatalogService) *DefaultDeliveryService {
	return &DefaultDeliveryService{
		Tokens:  tokens,
		Catalog: cat,
		// Header-bounded, not body-bounded: downloads may be large and
		// slow, but the origin must answer promptly.
		HTTP: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: 15 * time.Second},
		},
	}
}

// Redeem walks the token gates in strict order, fetches the asset and
// consumes one redemption before any byte is streamed. A client that
// disconnects mid-stream has still spent a download; that is deliberate,
// preferring under-delivery over unlimited re-download on flaky links.
func (s *DefaultDeliveryService) Redeem(ctx context.Context, tokenPlaintext string) (*Asset, error) {
	token, err := s.Tokens.GetByHash(ctx, utils.HashTokenSecret(tokenPlaintext))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: token lookup: %v", ErrAssetUnavailable, err)
	}

	now := time.Now()
	switch {
	case token.Revoked:
		return nil, ErrRevoked
	case token.ExpiresAt.Before(now):
		return nil, ErrExpired
	case token.MaxDownloads > 0 && token.DownloadCount >= token.MaxDownloads:
		return nil, ErrExhausted
	}

	assetURL := token.AssetPath
	if assetURL == "" {
		product, err := s.Catalog.GetProduct(ctx, token.ProductID)
		if err != nil || product.AssetPath == "" {
			return nil, fmt.Errorf("%w: no asset location for product %s", ErrAssetUnavailable, token.ProductID)
		}
		assetURL = product.AssetPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetUnavailable, err)
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: origin fetch: %v", ErrAssetUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: origin responded %d", ErrAssetUnavailable, resp.StatusCode)
	}

	// Atomic increment-and-check at the store: two concurrent final
	// redemptions cannot both pass.
	if err := s.Tokens.ConsumeRedemption(ctx, token.TokenHash); err != nil {
		resp.Body.Close()
		if errors.Is(err, tokenRepo.ErrNotConsumable) {
			return nil, ErrExhausted
		}
		return nil, fmt.Errorf("%w: redemption accounting: %v", ErrAssetUnavailable, err)
	}

	utils.GetLogger().Info("delivery: redemption",
		zap.String("tokenId", token.ID),
		zap.String("orderId", token.OrderID))

	disposition := resp.Header.Get("Content-Disposition")
	if disposition == "" {
		disposition = "attachment"
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Asset{
		Body:               resp.Body,
		ContentType:        contentType,
		ContentDisposition: disposition,
		ContentLength:      resp.ContentLength,
	}, nil
}
