package bookingRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"plinio/database"
	"plinio/models"
)

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo builds the repository over the booking_requests collection.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{coll: database.Collection("booking_requests")}
}

func (r *mongoBookingRepo) Create(ctx context.Context, rec *models.BookingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, rec)
	return err
}

func (r *mongoBookingRepo) GetByEventID(ctx context.Context, eventID string) (*models.BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.BookingRecord
	if err := r.coll.FindOne(ctx, bson.M{"externalEventId": eventID}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
