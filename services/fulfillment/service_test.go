package fulfillment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"plinio/models"
	"plinio/services/catalog"
	"plinio/utils"
)

type mockOrderRepo struct {
	byIntent map[string]*models.Order
	upserts  int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{byIntent: map[string]*models.Order{}}
}

func (m *mockOrderRepo) Upsert(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	m.upserts++
	if existing, ok := m.byIntent[order.PaymentIntentID]; ok {
		existing.Status = order.Status
		existing.UpdatedAt = time.Now()
		return existing, false, nil
	}
	stored := *order
	stored.ID = "order-1"
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.byIntent[order.PaymentIntentID] = &stored
	return &stored, true, nil
}

func (m *mockOrderRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	if o, ok := m.byIntent[paymentIntentID]; ok {
		return o, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockOrderRepo) ListRecent(ctx context.Context, limit int64) ([]models.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) EnsureIndexes() error { return nil }

type mockTokenRepo struct {
	byOrder   map[string]*models.DeliveryToken
	createErr error
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{byOrder: map[string]*models.DeliveryToken{}}
}

func (m *mockTokenRepo) Create(ctx context.Context, token *models.DeliveryToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	token.ID = "token-1"
	stored := *token
	m.byOrder[token.OrderID] = &stored
	return nil
}

func (m *mockTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*models.DeliveryToken, error) {
	for _, tok := range m.byOrder {
		if tok.TokenHash == tokenHash {
			return tok, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTokenRepo) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryToken, error) {
	if tok, ok := m.byOrder[orderID]; ok {
		return tok, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTokenRepo) ConsumeRedemption(ctx context.Context, tokenHash string) error { return nil }

func (m *mockTokenRepo) Revoke(ctx context.Context, id string) error { return nil }

func (m *mockTokenRepo) EnsureIndexes() error { return nil }

type mockCatalog struct {
	products map[string]models.StoreProduct
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]models.StoreProduct, error) {
	out := make([]models.StoreProduct, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalog) GetProduct(ctx context.Context, id string) (*models.StoreProduct, error) {
	if p, ok := m.products[id]; ok {
		return &p, nil
	}
	return nil, catalog.ErrUnknownProduct
}

type deliveryEmail struct {
	To          string
	ProductName string
	DeliveryURL string
}

type mockFulfillNotifier struct {
	deliveries []deliveryEmail
}

func (m *mockFulfillNotifier) Send(ctx context.Context, payload models.EmailPayload) error {
	return nil
}

func (m *mockFulfillNotifier) EnqueueBookingConfirmation(rec models.BookingRecord) error { return nil }

func (m *mockFulfillNotifier) EnqueueDeliveryEmail(to, productName, deliveryURL string, expiresAt time.Time) error {
	m.deliveries = append(m.deliveries, deliveryEmail{to, productName, deliveryURL})
	return nil
}

func (m *mockFulfillNotifier) SendContactNotification(ctx context.Context, req models.ContactRequest) error {
	return nil
}

func (m *mockFulfillNotifier) Configured() bool { return true }

func newTestService(orders *mockOrderRepo, tokens *mockTokenRepo, notifier *mockFulfillNotifier) *DefaultFulfillmentService {
	return &DefaultFulfillmentService{
		Orders: orders,
		Tokens: tokens,
		Catalog: &mockCatalog{products: map[string]models.StoreProduct{
			"guida-pdf": {ID: "guida-pdf", Name: "Guida PDF", AssetPath: "https://assets.example.com/guida.pdf"},
		}},
		Notifier:      notifier,
		Secrets:       []string{"whsec_primary"},
		PublicBaseURL: "https://example.com/",
	}
}

func signedDelivery(t *testing.T, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()
	payload := paymentEventJSON(t, eventType, object)
	return payload, signPayload(payload, "whsec_primary", time.Now())
}

func TestHandlePaymentEvent_Fulfills(t *testing.T) {
	orders := newMockOrderRepo()
	tokens := newMockTokenRepo()
	notifier := &mockFulfillNotifier{}
	svc := newTestService(orders, tokens, notifier)

	payload, header := signedDelivery(t, "payment_intent.succeeded", succeededIntent())
	res, err := svc.HandlePaymentEvent(context.Background(), payload, header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ignored {
		t.Fatal("succeeded intent must not be ignored")
	}
	if res.Order.PaymentIntentID != "pi_123" || res.Order.ProductName != "Guida PDF" {
		t.Errorf("order %+v", res.Order)
	}
	if res.TokenID != "token-1" {
		t.Errorf("tokenID %q", res.TokenID)
	}

	tok := tokens.byOrder[res.Order.ID]
	if tok == nil {
		t.Fatal("no token minted")
	}
	if tok.MaxDownloads != MaxDownloads {
		t.Errorf("maxDownloads %d, want %d", tok.MaxDownloads, MaxDownloads)
	}
	if remaining := time.Until(tok.ExpiresAt); remaining < TokenTTL-time.Minute || remaining > TokenTTL {
		t.Errorf("token TTL off: expires in %v", remaining)
	}

	if len(notifier.deliveries) != 1 {
		t.Fatalf("expected one delivery email, got %d", len(notifier.deliveries))
	}
	mail := notifier.deliveries[0]
	if mail.To != "buyer@example.com" {
		t.Errorf("email to %q", mail.To)
	}
	if !strings.HasPrefix(mail.DeliveryURL, "https://example.com/api/digital/download/") {
		t.Errorf("delivery URL %q", mail.DeliveryURL)
	}

	// The link carries the plaintext secret; the store holds only its hash.
	secret := strings.TrimPrefix(mail.DeliveryURL, "https://example.com/api/digital/download/")
	if utils.HashTokenSecret(secret) != tok.TokenHash {
		t.Error("stored hash does not match the mailed secret")
	}
	if strings.Contains(tok.TokenHash, secret) {
		t.Error("plaintext secret must not be stored")
	}
}

func TestHandlePaymentEvent_IgnoresOtherTypes(t *testing.T) {
	svc := newTestService(newMockOrderRepo(), newMockTokenRepo(), &mockFulfillNotifier{})

	payload, header := signedDelivery(t, "payment_intent.created", succeededIntent())
	res, err := svc.HandlePaymentEvent(context.Background(), payload, header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ignored {
		t.Fatal("non-succeeded event types must be ignored")
	}
}

func TestHandlePaymentEvent_BadSignature(t *testing.T) {
	svc := newTestService(newMockOrderRepo(), newMockTokenRepo(), &mockFulfillNotifier{})

	payload := paymentEventJSON(t, "payment_intent.succeeded", succeededIntent())
	header := signPayload(payload, "whsec_other", time.Now())
	if _, err := svc.HandlePaymentEvent(context.Background(), payload, header); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestHandlePaymentEvent_UnknownProduct(t *testing.T) {
	svc := newTestService(newMockOrderRepo(), newMockTokenRepo(), &mockFulfillNotifier{})

	obj := succeededIntent()
	obj["metadata"] = map[string]any{"productId": "nope"}
	payload, header := signedDelivery(t, "payment_intent.succeeded", obj)
	if _, err := svc.HandlePaymentEvent(context.Background(), payload, header); !errors.Is(err, catalog.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestHandlePaymentEvent_RedeliveryMintsNoSecondToken(t *testing.T) {
	orders := newMockOrderRepo()
	tokens := newMockTokenRepo()
	notifier := &mockFulfillNotifier{}
	svc := newTestService(orders, tokens, notifier)

	payload, header := signedDelivery(t, "payment_intent.succeeded", succeededIntent())

	first, err := svc.HandlePaymentEvent(context.Background(), payload, header)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	second, err := svc.HandlePaymentEvent(context.Background(), payload, header)
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if len(orders.byIntent) != 1 {
		t.Errorf("expected one order row, got %d", len(orders.byIntent))
	}
	if second.Order.ID != first.Order.ID {
		t.Errorf("redelivery produced a different order: %q vs %q", second.Order.ID, first.Order.ID)
	}
	if second.TokenID != first.TokenID {
		t.Errorf("redelivery minted a second token: %q vs %q", second.TokenID, first.TokenID)
	}
	if len(notifier.deliveries) != 1 {
		t.Errorf("expected one delivery email, got %d", len(notifier.deliveries))
	}
}

func TestHandlePaymentEvent_RetryAfterTokenCreateFailure(t *testing.T) {
	orders := newMockOrderRepo()
	tokens := newMockTokenRepo()
	svc := newTestService(orders, tokens, &mockFulfillNotifier{})

	payload, header := signedDelivery(t, "payment_intent.succeeded", succeededIntent())

	// First delivery dies between the order upsert and the token insert.
	tokens.createErr = errors.New("mongo down")
	if _, err := svc.HandlePaymentEvent(context.Background(), payload, header); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	// The retried delivery finds the order without a token and finishes.
	tokens.createErr = nil
	res, err := svc.HandlePaymentEvent(context.Background(), payload, header)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.TokenID == "" {
		t.Error("retry must mint the missing token")
	}
	if len(orders.byIntent) != 1 {
		t.Errorf("expected one order row, got %d", len(orders.byIntent))
	}
}
