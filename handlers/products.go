package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plinio/services/catalog"
	"plinio/utils"
)

// ProductsHandler exposes the digital-goods catalog.
type ProductsHandler struct {
	Catalog catalog.CatalogService
	Logger  *zap.Logger
}

func NewProductsHandler(svc catalog.CatalogService, logger *zap.Logger) *ProductsHandler {
	return &ProductsHandler{Catalog: svc, Logger: logger}
}

// List handles GET /api/store/products.
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.Logger.Error("catalog listing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Errore nel recupero prodotti", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
