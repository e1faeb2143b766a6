package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plinio/services/delivery"
	"plinio/utils"
)

// DownloadHandler streams purchased assets behind delivery tokens.
type DownloadHandler struct {
	Delivery delivery.DeliveryService
	Logger   *zap.Logger
}

func NewDownloadHandler(svc delivery.DeliveryService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{Delivery: svc, Logger: logger}
}

// Download handles GET /api/digital/download/:token.
func (h *DownloadHandler) Download(c *gin.Context) {
	token := c.Param("token")

	asset, err := h.Delivery.Redeem(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrInvalidToken):
			utils.JSONError(c, http.StatusNotFound, "Link di download non valido", "")
		case errors.Is(err, delivery.ErrRevoked):
			utils.JSONError(c, http.StatusForbidden, "Link di download revocato", "")
		case errors.Is(err, delivery.ErrExpired):
			utils.JSONError(c, http.StatusGone, "Link di download scaduto", "")
		case errors.Is(err, delivery.ErrExhausted):
			utils.JSONError(c, http.StatusGone, "Numero massimo di download raggiunto", "")
		case errors.Is(err, delivery.ErrAssetUnavailable):
			h.Logger.Error("asset fetch failed", zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "File temporaneamente non disponibile", "")
		default:
			h.Logger.Error("download failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Errore durante il download", "")
		}
		return
	}
	defer asset.Body.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": asset.ContentDisposition,
	}
	c.DataFromReader(http.StatusOK, asset.ContentLength, asset.ContentType, asset.Body, extraHeaders)
}
