package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"plinio/models"
	"plinio/utils"
)

const (
	payhipProductsURL = "https://payhip.com/api/v2/products"
	catalogCacheKey   = "catalog:products"
	catalogCacheTTL   = 5 * time.Minute
)

// PayhipCatalogService fetches products from the Payhip API, falling back
// to a static list when the API is unconfigured or unreachable.
type PayhipCatalogService struct {
	APIKey   string
	Fallback []models.StoreProduct
	Cache    *redis.Client
	HTTP     *http.Client
}

func NewPayhipCatalogService(apiKey string, fallback []models.StoreProduct, cache *redis.Client) *PayhipCatalogService {
	return &PayhipCatalogService{
		APIKey:   apiKey,
		Fallback: fallback,
		Cache:    cache,
		HTTP:     &http.Client{Timeout: 8 * time.Second},
	}
}

func (s *PayhipCatalogService) ListProducts(ctx context.Context) ([]models.StoreProduct, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	products, err := s.fetch(ctx)
	if err != nil {
		utils.GetLogger().Warn("catalog: payhip fetch failed, serving fallback", zap.Error(err))
		return s.Fallback, nil
	}
	if len(products) == 0 {
		return s.Fallback, nil
	}
	s.writeCache(ctx, products)
	return products, nil
}

func (s *PayhipCatalogService) GetProduct(ctx context.Context, id string) (*models.StoreProduct, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrUnknownProduct
}

func (s *PayhipCatalogService) fetch(ctx context.Context) ([]models.StoreProduct, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("payhip api key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payhipProductsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("payhip-api-key", s.APIKey)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payhip request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payhip responded %d", resp.StatusCode)
	}

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("payhip response decode failed: %w", err)
	}

	products := make([]models.StoreProduct, 0, len(payload.Data))
	for i, raw := range payload.Data {
		if p := NormalizeProduct(raw, i); p != nil {
			products = append(products, *p)
		}
	}
	return products, nil
}

// NormalizeProduct maps a raw provider product object onto a StoreProduct.
// Each logical value is resolved through an ordered list of candidate field
// names, first match wins. Products without an allowed checkout URL are
// dropped.
func NormalizeProduct(raw map[string]any, index int) *models.StoreProduct {
	checkoutURL := firstString(raw, "checkout_url", "product_url", "url", "link")
	if !allowedCheckoutURL(checkoutURL) {
		return nil
	}

	id := slugify(firstString(raw, "id", "product_id", "slug", "title"))
	if id == "" {
		id = fmt.Sprintf("payhip-%d", index+1)
	}
	name := firstString(raw, "name", "title")
	if name == "" {
		name = fmt.Sprintf("Prodotto %d", index+1)
	}
	description := firstString(raw, "description", "summary")
	if description == "" {
		description = "Prodotto disponibile all'acquisto online."
	}

	amount := amountCents(raw)
	currency := strings.ToLower(firstString(raw, "currency"))
	if currency == "" {
		currency = "eur"
	}
	priceLabel := firstString(raw, "price_formatted", "price_display", "formatted_price")
	if priceLabel == "" && amount > 0 {
		priceLabel = fmt.Sprintf("€%.2f", float64(amount)/100)
	}
	if priceLabel == "" {
		priceLabel = "Prezzo su richiesta"
	}

	return &models.StoreProduct{
		ID:          id,
		Name:        name,
		Description: description,
		PriceLabel:  priceLabel,
		AmountCents: amount,
		Currency:    currency,
		CheckoutURL: checkoutURL,
		AssetPath:   firstString(raw, "file_url", "download_url", "asset_url"),
	}
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func amountCents(raw map[string]any) int64 {
	for _, key := range []string{"price", "amount"} {
		switch v := raw[key].(type) {
		case float64:
			if v > 0 {
				return int64(v*100 + 0.5)
			}
		case string:
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &f); err == nil && f > 0 {
				return int64(f*100 + 0.5)
			}
		}
	}
	return 0
}

func allowedCheckoutURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" && strings.HasSuffix(parsed.Hostname(), "payhip.com")
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *PayhipCatalogService) readCache(ctx context.Context) []models.StoreProduct {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, catalogCacheKey).Result()
	if err != nil {
		return nil
	}
	var products []models.StoreProduct
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil
	}
	return products
}

func (s *PayhipCatalogService) writeCache(ctx context.Context, products []models.StoreProduct) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("catalog: cache write failed", zap.Error(err))
	}
}
