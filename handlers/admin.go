package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	orderRepo "plinio/database/repository/order"
	tokenRepo "plinio/database/repository/token"
	"plinio/utils"
)

// AdminHandler serves the back-office endpoints.
type AdminHandler struct {
	Orders orderRepo.OrderRepository
	Tokens tokenRepo.TokenRepository
	Logger *zap.Logger
}

func NewAdminHandler(orders orderRepo.OrderRepository, tokens tokenRepo.TokenRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Orders: orders, Tokens: tokens, Logger: logger}
}

// ListOrders handles GET /api/admin/orders.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListRecent(c.Request.Context(), 100)
	if err != nil {
		h.Logger.Error("admin order listing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Errore nel recupero ordini", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// RevokeToken handles POST /api/admin/tokens/:id/revoke. This is the only
// writer of the revoked flag.
func (h *AdminHandler) RevokeToken(c *gin.Context) {
	id := c.Param("id")
	if err := h.Tokens.Revoke(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.JSONError(c, http.StatusNotFound, "Token non trovato", "")
			return
		}
		h.Logger.Error("token revocation failed", zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Errore revoca token", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "revoked": id})
}
