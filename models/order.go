package models

import "time"

// Order records a succeeded payment. Rows are unique on PaymentIntentID so
// redelivered webhooks update in place instead of inserting twice.
type Order struct {
	ID              string            `bson:"id" json:"id"`
	PaymentIntentID string            `bson:"paymentIntentId" json:"paymentIntentId"`
	ProductID       string            `bson:"productId" json:"productId"`
	ProductName     string            `bson:"productName" json:"productName"`
	CustomerEmail   string            `bson:"customerEmail" json:"customerEmail"`
	AmountCents     int64             `bson:"amountCents" json:"amountCents"`
	Currency        string            `bson:"currency" json:"currency"`
	Status          string            `bson:"status" json:"status"`
	Metadata        map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}
