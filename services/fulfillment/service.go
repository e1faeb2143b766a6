package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	orderRepo "plinio/database/repository/order"
	tokenRepo "plinio/database/repository/token"
	"plinio/models"
	"plinio/services/catalog"
	"plinio/services/notification"
	"plinio/utils"
)

// Delivery token bounds, per order.
const (
	TokenTTL     = 7 * 24 * time.Hour
	MaxDownloads = 3
)

// Result reports what a webhook delivery produced.
type Result struct {
	Ignored bool
	Order   *models.Order
	TokenID string
}

// FulfillmentService turns verified payment events into orders and delivery
// tokens.
type FulfillmentService interface {
	HandlePaymentEvent(ctx context.Context, payload []byte, sigHeader string) (*Result, error)
}

// DefaultFulfillmentService is the production implementation.
type DefaultFulfillmentService struct {
	Orders        orderRepo.OrderRepository
	Tokens        tokenRepo.TokenRepository
	Catalog       catalog.CatalogService
	Notifier      notification.NotificationService
	Secrets       []string
	PublicBaseURL string
}

// HandlePaymentEvent processes one signed webhook delivery end to end:
// verify, filter, extract, upsert the order, mint a token, enqueue the
// buyer email. The order upsert is the idempotency boundary; a redelivered
// event updates the existing row and mints no second token.
func (s *DefaultFulfillmentService) HandlePaymentEvent(ctx context.Context, payload []byte, sigHeader string) (*Result, error) {
	event, err := VerifySignature(payload, sigHeader, s.Secrets)
	if err != nil {
		return nil, err
	}

	if event.Type != "payment_intent.succeeded" {
		return &Result{Ignored: true}, nil
	}

	fields, err := ExtractPaymentFields(event)
	if err != nil {
		return nil, err
	}

	product, err := s.Catalog.GetProduct(ctx, fields.ProductID)
	if err != nil {
		return nil, err
	}

	status := fields.Status
	if status == "" {
		status = "succeeded"
	}
	order, inserted, err := s.Orders.Upsert(ctx, &models.Order{
		PaymentIntentID: fields.PaymentIntentID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		CustomerEmail:   fields.CustomerEmail,
		AmountCents:     fields.AmountCents,
		Currency:        fields.Currency,
		Status:          status,
		Metadata:        fields.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: order upsert: %v", ErrPersistence, err)
	}

	if !inserted {
		// Redelivery. If the first delivery completed, the original token
		// stands. If it died between the upsert and the token insert, the
		// retry finishes the job here.
		if existing, lookupErr := s.Tokens.GetByOrderID(ctx, order.ID); lookupErr == nil {
			utils.GetLogger().Info("fulfillment: duplicate payment event",
				zap.String("paymentIntentId", fields.PaymentIntentID))
			return &Result{Order: order, TokenID: existing.ID}, nil
		}
	}

	secret, err := utils.GenerateTokenSecret()
	if err != nil {
		return nil, fmt.Errorf("%w: token secret: %v", ErrPersistence, err)
	}
	token := models.DeliveryToken{
		TokenHash:     utils.HashTokenSecret(secret),
		OrderID:       order.ID,
		ProductID:     product.ID,
		CustomerEmail: fields.CustomerEmail,
		AssetPath:     product.AssetPath,
		ExpiresAt:     time.Now().Add(TokenTTL),
		MaxDownloads:  MaxDownloads,
	}
	if err := s.Tokens.Create(ctx, &token); err != nil {
		// The order row exists but its token does not; the sender will
		// redeliver and the upsert path above will refresh the order
		// without minting. Recovery needs the retried event to reach the
		// insert path again, so surface the failure.
		return nil, fmt.Errorf("%w: token create: %v", ErrPersistence, err)
	}

	deliveryURL := s.buildDeliveryURL(secret)
	if s.Notifier != nil {
		if err := s.Notifier.EnqueueDeliveryEmail(fields.CustomerEmail, product.Name, deliveryURL, token.ExpiresAt); err != nil {
			// Fire and forget: the token is the asset of record.
			utils.GetLogger().Warn("fulfillment: delivery email enqueue failed",
				zap.String("orderId", order.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("fulfillment: order fulfilled",
		zap.String("orderId", order.ID),
		zap.String("productId", product.ID))
	return &Result{Order: order, TokenID: token.ID}, nil
}

func (s *DefaultFulfillmentService) buildDeliveryURL(secret string) string {
	base := strings.TrimRight(s.PublicBaseURL, "/")
	return base + "/api/digital/download/" + secret
}
