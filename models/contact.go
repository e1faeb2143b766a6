package models

import "time"

// ContactRequest is a message relayed from the site contact form.
type ContactRequest struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Service   string    `bson:"service,omitempty" json:"service,omitempty"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ConsentLog records a cookie-consent decision for audit purposes.
type ConsentLog struct {
	ID        string    `bson:"id" json:"id"`
	Version   string    `bson:"consentVersion" json:"consentVersion"`
	Payload   string    `bson:"consentPayload" json:"consentPayload"`
	IPAddress string    `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string    `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
