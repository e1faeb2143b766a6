package models

// StoreProduct is a sellable digital item from the commerce catalog.
type StoreProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceLabel  string `json:"priceLabel"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	CheckoutURL string `json:"checkoutUrl"`
	AssetPath   string `json:"assetPath,omitempty"`
}
