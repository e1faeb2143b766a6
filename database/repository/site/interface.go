package siteRepo

import (
	"context"

	"plinio/models"
)

// SiteRepository persists the routine site records: contact-form requests
// and cookie-consent logs.
type SiteRepository interface {
	CreateContactRequest(ctx context.Context, req *models.ContactRequest) error
	CreateConsentLog(ctx context.Context, entry *models.ConsentLog) error
}
