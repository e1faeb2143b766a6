package models

import "time"

// CommerceEvent is a raw webhook event from the alternate commerce source
// (Payhip), stored keyed by its external transaction id.
type CommerceEvent struct {
	ID         string    `bson:"id" json:"id"`
	ExternalID string    `bson:"externalId" json:"externalId"`
	EventType  string    `bson:"eventType" json:"eventType"`
	Payload    string    `bson:"payload" json:"payload"`
	ReceivedAt time.Time `bson:"receivedAt" json:"receivedAt"`
}
