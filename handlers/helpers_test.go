package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plinio/models"
	"plinio/services/delivery"
	"plinio/services/fulfillment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAvailability struct {
	fn func(ctx context.Context, date string) (*models.AvailabilityResponse, error)
}

func (s *stubAvailability) GetAvailability(ctx context.Context, date string) (*models.AvailabilityResponse, error) {
	return s.fn(ctx, date)
}

type stubBooking struct {
	fn func(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error)
}

func (s *stubBooking) Book(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	return s.fn(ctx, req)
}

type stubDelivery struct {
	fn func(ctx context.Context, token string) (*delivery.Asset, error)
}

func (s *stubDelivery) Redeem(ctx context.Context, token string) (*delivery.Asset, error) {
	return s.fn(ctx, token)
}

type stubFulfillment struct {
	fn func(ctx context.Context, payload []byte, sigHeader string) (*fulfillment.Result, error)
}

func (s *stubFulfillment) HandlePaymentEvent(ctx context.Context, payload []byte, sigHeader string) (*fulfillment.Result, error) {
	return s.fn(ctx, payload, sigHeader)
}

type stubNotifier struct {
	contacts   []models.ContactRequest
	contactErr error
	configured bool
}

func (s *stubNotifier) Send(ctx context.Context, payload models.EmailPayload) error { return nil }

func (s *stubNotifier) EnqueueBookingConfirmation(rec models.BookingRecord) error { return nil }

func (s *stubNotifier) EnqueueDeliveryEmail(to, productName, deliveryURL string, expiresAt time.Time) error {
	return nil
}

func (s *stubNotifier) SendContactNotification(ctx context.Context, req models.ContactRequest) error {
	if s.contactErr != nil {
		return s.contactErr
	}
	s.contacts = append(s.contacts, req)
	return nil
}

func (s *stubNotifier) Configured() bool { return s.configured }

type memSiteRepo struct {
	contacts []models.ContactRequest
	consents []models.ConsentLog
	err      error
}

func (m *memSiteRepo) CreateContactRequest(ctx context.Context, req *models.ContactRequest) error {
	if m.err != nil {
		return m.err
	}
	m.contacts = append(m.contacts, *req)
	return nil
}

func (m *memSiteRepo) CreateConsentLog(ctx context.Context, entry *models.ConsentLog) error {
	if m.err != nil {
		return m.err
	}
	m.consents = append(m.consents, *entry)
	return nil
}

type memCommerceRepo struct {
	events []models.CommerceEvent
	err    error
}

func (m *memCommerceRepo) UpsertEvent(ctx context.Context, event *models.CommerceEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *memCommerceRepo) EnsureIndexes() error { return nil }

func testLogger() *zap.Logger { return zap.NewNop() }

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}
