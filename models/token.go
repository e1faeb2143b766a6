package models

import "time"

// DeliveryToken grants bounded, time-limited access to a purchased asset.
// Only the SHA-256 of the random secret is stored; the plaintext exists
// solely inside the delivery link mailed to the buyer.
type DeliveryToken struct {
	ID             string     `bson:"id" json:"id"`
	TokenHash      string     `bson:"tokenHash" json:"-"`
	OrderID        string     `bson:"orderId" json:"orderId"`
	ProductID      string     `bson:"productId" json:"productId"`
	CustomerEmail  string     `bson:"customerEmail" json:"customerEmail"`
	AssetPath      string     `bson:"assetPath" json:"assetPath"`
	ExpiresAt      time.Time  `bson:"expiresAt" json:"expiresAt"`
	MaxDownloads   int        `bson:"maxDownloads" json:"maxDownloads"`
	DownloadCount  int        `bson:"downloadCount" json:"downloadCount"`
	Revoked        bool       `bson:"revoked" json:"revoked"`
	LastDownloadAt *time.Time `bson:"lastDownloadAt,omitempty" json:"lastDownloadAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}

// Usable reports whether the token would pass every redemption gate at t.
func (dt *DeliveryToken) Usable(t time.Time) bool {
	if dt.Revoked {
		return false
	}
	if dt.ExpiresAt.Before(t) {
		return false
	}
	if dt.MaxDownloads > 0 && dt.DownloadCount >= dt.MaxDownloads {
		return false
	}
	return true
}
