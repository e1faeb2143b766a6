package fulfillment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// VerifySignature validates a webhook payload against an ordered list of
// signing secrets, first success wins. Two slots let a secret rotate with
// no delivery gap.
func VerifySignature(payload []byte, sigHeader string, secrets []string) (stripe.Event, error) {
	var lastErr error
	for _, secret := range secrets {
		event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err == nil {
			return event, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no signing secrets configured")
	}
	return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, lastErr)
}

// PaymentFields is what fulfillment needs out of a succeeded payment.
type PaymentFields struct {
	PaymentIntentID string
	ProductID       string
	CustomerEmail   string
	AmountCents     int64
	Currency        string
	Status          string
	Metadata        map[string]string
}

// Candidate field paths per logical value, evaluated first-match-wins.
// Different checkout integrations label the same data differently; the
// ordered list replaces duck-typed probing with an explicit mapping.
var (
	productIDPaths = []string{
		"metadata.productId", "metadata.product_id", "metadata.product",
	}
	customerEmailPaths = []string{
		"metadata.customerEmail", "metadata.customer_email",
		"receipt_email", "customer_email", "customer_details.email",
	}
)

// ExtractPaymentFields maps the raw payment object onto PaymentFields.
func ExtractPaymentFields(event stripe.Event) (PaymentFields, error) {
	var obj map[string]any
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return PaymentFields{}, fmt.Errorf("%w: undecodable payment object", ErrIncompleteOrder)
	}

	fields := PaymentFields{
		PaymentIntentID: lookupString(obj, "id"),
		ProductID:       firstMatch(obj, productIDPaths),
		CustomerEmail:   firstMatch(obj, customerEmailPaths),
		AmountCents:     lookupInt(obj, "amount_received", "amount"),
		Currency:        strings.ToLower(lookupString(obj, "currency")),
		Status:          lookupString(obj, "status"),
		Metadata:        stringMap(obj["metadata"]),
	}

	if fields.PaymentIntentID == "" {
		return PaymentFields{}, fmt.Errorf("%w: missing payment id", ErrIncompleteOrder)
	}
	if fields.ProductID == "" || fields.CustomerEmail == "" {
		return PaymentFields{}, fmt.Errorf("%w: missing product id or customer email", ErrIncompleteOrder)
	}
	return fields, nil
}

// firstMatch resolves the first non-empty value among dot-separated paths.
func firstMatch(obj map[string]any, paths []string) string {
	for _, path := range paths {
		if v := lookupPath(obj, path); v != "" {
			return v
		}
	}
	return ""
}

func lookupPath(obj map[string]any, path string) string {
	parts := strings.Split(path, ".")
	current := obj
	for i, part := range parts {
		if i == len(parts)-1 {
			return lookupString(current, part)
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return ""
		}
		current = next
	}
	return ""
}

func lookupString(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func lookupInt(obj map[string]any, keys ...string) int64 {
	for _, key := range keys {
		if v, ok := obj[key].(float64); ok && v > 0 {
			return int64(v)
		}
	}
	return 0
}

func stringMap(raw any) map[string]string {
	src, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
