package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plinio/config"
	"plinio/services/catalog"
	"plinio/services/fulfillment"
	"plinio/utils"
)

// maxWebhookBody bounds how much of a webhook payload is read.
const maxWebhookBody = 1 << 20

// PaymentsHandler serves the signed payment-processor webhook.
type PaymentsHandler struct {
	Fulfillment fulfillment.FulfillmentService
	Logger      *zap.Logger
}

func NewPaymentsHandler(svc fulfillment.FulfillmentService, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{Fulfillment: svc, Logger: logger}
}

// Webhook handles POST /api/payments/webhook. The response status drives
// the sender's retry loop: non-2xx means redeliver.
func (h *PaymentsHandler) Webhook(c *gin.Context) {
	if len(config.StripeWebhookSecrets()) == 0 {
		utils.JSONError(c, http.StatusServiceUnavailable, "Webhook pagamenti non configurato", "")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Payload non leggibile", "")
		return
	}

	result, err := h.Fulfillment.HandlePaymentEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, fulfillment.ErrInvalidSignature):
			utils.JSONError(c, http.StatusBadRequest, "Firma webhook non valida", "")
		case errors.Is(err, fulfillment.ErrIncompleteOrder):
			utils.JSONError(c, http.StatusBadRequest, "Dati pagamento incompleti", "")
		case errors.Is(err, catalog.ErrUnknownProduct):
			utils.JSONError(c, http.StatusBadRequest, "Prodotto sconosciuto", "")
		default:
			h.Logger.Error("payment webhook processing failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Errore elaborazione pagamento", "")
		}
		return
	}

	if result.Ignored {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
