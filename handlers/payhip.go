package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plinio/config"
	commerceRepo "plinio/database/repository/commerce"
	"plinio/models"
	"plinio/utils"
)

// PayhipHandler receives events from the alternate commerce source.
type PayhipHandler struct {
	Repo   commerceRepo.CommerceRepository
	Logger *zap.Logger
}

func NewPayhipHandler(repo commerceRepo.CommerceRepository, logger *zap.Logger) *PayhipHandler {
	return &PayhipHandler{Repo: repo, Logger: logger}
}

// Candidate fields for the external transaction id and event type; the
// provider has renamed both over time.
var (
	payhipIDFields   = []string{"id", "transaction_id", "txn_id", "order_id"}
	payhipTypeFields = []string{"type", "event", "event_type"}
)

// Webhook handles POST /api/payhip/webhook. The shared secret may arrive in
// a header, a query parameter or a body field.
func (h *PayhipHandler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Payload non leggibile", "")
		return
	}

	var body map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Payload non valido", "")
			return
		}
	}

	if secret := config.AppConfig.PayhipWebhookSecret; secret != "" {
		presented := c.GetHeader("X-Payhip-Signature")
		if presented == "" {
			presented = c.Query("key")
		}
		if presented == "" {
			presented = stringField(body, "signature", "key", "secret")
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, "Non autorizzato", "")
			return
		}
	}

	externalID := stringField(body, payhipIDFields...)
	if externalID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Identificativo transazione mancante", "")
		return
	}
	eventType := stringField(body, payhipTypeFields...)

	if h.Repo == nil {
		// No store configured: acknowledge without persisting so the
		// sender stops retrying.
		c.JSON(http.StatusAccepted, gin.H{
			"ok": true, "saved": false, "externalId": externalID, "eventType": eventType,
		})
		return
	}

	event := models.CommerceEvent{
		ExternalID: externalID,
		EventType:  eventType,
		Payload:    string(raw),
	}
	if err := h.Repo.UpsertEvent(c.Request.Context(), &event); err != nil {
		h.Logger.Error("payhip event persistence failed",
			zap.String("externalId", externalID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Errore salvataggio evento", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true, "saved": true, "externalId": externalID, "eventType": eventType,
	})
}

func stringField(body map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := body[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
