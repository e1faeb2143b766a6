package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"plinio/config"
	"plinio/middleware"
	"plinio/models"
	"plinio/services/catalog"
)

type stubOrderRepo struct {
	orders []models.Order
}

func (s *stubOrderRepo) Upsert(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	return order, true, nil
}

func (s *stubOrderRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubOrderRepo) ListRecent(ctx context.Context, limit int64) ([]models.Order, error) {
	return s.orders, nil
}

func (s *stubOrderRepo) EnsureIndexes() error { return nil }

type stubTokenRepo struct {
	revoked   []string
	revokeErr error
}

func (s *stubTokenRepo) Create(ctx context.Context, token *models.DeliveryToken) error { return nil }

func (s *stubTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*models.DeliveryToken, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubTokenRepo) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryToken, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubTokenRepo) ConsumeRedemption(ctx context.Context, tokenHash string) error { return nil }

func (s *stubTokenRepo) Revoke(ctx context.Context, id string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked = append(s.revoked, id)
	return nil
}

func (s *stubTokenRepo) EnsureIndexes() error { return nil }

func adminEngine(orders *stubOrderRepo, tokens *stubTokenRepo) *gin.Engine {
	h := NewAdminHandler(orders, tokens, testLogger())
	engine := gin.New()
	group := engine.Group("/api/admin", middleware.AdminAuthMiddleware())
	group.GET("/orders", h.ListOrders)
	group.POST("/tokens/:id/revoke", h.RevokeToken)
	return engine
}

func withAdminToken(t *testing.T, token string) {
	t.Helper()
	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })
	config.AppConfig.AdminAPIToken = token
}

func TestAdmin_RequiresToken(t *testing.T) {
	withAdminToken(t, "admin-token")
	engine := adminEngine(&stubOrderRepo{}, &stubTokenRepo{})

	w := performJSON(t, engine, http.MethodGet, "/api/admin/orders", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: status %d, want 401", w.Code)
	}

	w = performJSON(t, engine, http.MethodGet, "/api/admin/orders", nil,
		map[string]string{"Authorization": "Bearer wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status %d, want 401", w.Code)
	}
}

func TestAdmin_DisabledWithoutConfiguredToken(t *testing.T) {
	withAdminToken(t, "")
	engine := adminEngine(&stubOrderRepo{}, &stubTokenRepo{})

	w := performJSON(t, engine, http.MethodGet, "/api/admin/orders", nil,
		map[string]string{"Authorization": "Bearer anything"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", w.Code)
	}
}

func TestAdmin_ListOrders(t *testing.T) {
	withAdminToken(t, "admin-token")
	orders := &stubOrderRepo{orders: []models.Order{{ID: "order-1", PaymentIntentID: "pi_1"}}}
	engine := adminEngine(orders, &stubTokenRepo{})

	w := performJSON(t, engine, http.MethodGet, "/api/admin/orders", nil,
		map[string]string{"Authorization": "Bearer admin-token"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	list, _ := body["orders"].([]any)
	if len(list) != 1 {
		t.Fatalf("orders %v", body["orders"])
	}
}

func TestAdmin_RevokeToken(t *testing.T) {
	withAdminToken(t, "admin-token")
	tokens := &stubTokenRepo{}
	engine := adminEngine(&stubOrderRepo{}, tokens)

	w := performJSON(t, engine, http.MethodPost, "/api/admin/tokens/token-1/revoke", nil,
		map[string]string{"Authorization": "Bearer admin-token"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != "token-1" {
		t.Errorf("revoked %v", tokens.revoked)
	}
}

func TestAdmin_RevokeUnknownToken(t *testing.T) {
	withAdminToken(t, "admin-token")
	tokens := &stubTokenRepo{revokeErr: mongo.ErrNoDocuments}
	engine := adminEngine(&stubOrderRepo{}, tokens)

	w := performJSON(t, engine, http.MethodPost, "/api/admin/tokens/missing/revoke", nil,
		map[string]string{"Authorization": "Bearer admin-token"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestProductsHandler_List(t *testing.T) {
	cat := &listCatalog{products: []models.StoreProduct{{ID: "guida-pdf", Name: "Guida PDF"}}}
	h := NewProductsHandler(cat, testLogger())
	engine := gin.New()
	engine.GET("/api/store/products", h.List)

	w := performJSON(t, engine, http.MethodGet, "/api/store/products", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := decodeBody(t, w)
	list, _ := body["products"].([]any)
	if len(list) != 1 {
		t.Fatalf("products %v", body["products"])
	}
}

type listCatalog struct {
	products []models.StoreProduct
}

func (c *listCatalog) ListProducts(ctx context.Context) ([]models.StoreProduct, error) {
	return c.products, nil
}

func (c *listCatalog) GetProduct(ctx context.Context, id string) (*models.StoreProduct, error) {
	return nil, catalog.ErrUnknownProduct
}
