package siteRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"plinio/database"
	"plinio/models"
)

type mongoSiteRepo struct {
	contacts *mongo.Collection
	consents *mongo.Collection
}

// NewMongoSiteRepo builds the repository over the contact_requests and
// consent_logs collections.
func NewMongoSiteRepo() SiteRepository {
	return &mongoSiteRepo{
		contacts: database.Collection("contact_requests"),
		consents: database.Collection("consent_logs"),
	}
}

func (r *mongoSiteRepo) CreateContactRequest(ctx context.Context, req *models.ContactRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	_, err := r.contacts.InsertOne(ctx, req)
	return err
}

func (r *mongoSiteRepo) CreateConsentLog(ctx context.Context, entry *models.ConsentLog) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.consents.InsertOne(ctx, entry)
	return err
}
