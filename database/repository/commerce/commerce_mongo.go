package commerceRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"plinio/database"
	"plinio/models"
)

// CommerceRepository stores raw webhook events from the alternate commerce
// source, keyed by external transaction id.
type CommerceRepository interface {
	UpsertEvent(ctx context.Context, event *models.CommerceEvent) error
	EnsureIndexes() error
}

type mongoCommerceRepo struct {
	coll *mongo.Collection
}

// NewMongoCommerceRepo builds the repository over the commerce_events collection.
func NewMongoCommerceRepo() CommerceRepository {
	return &mongoCommerceRepo{coll: database.Collection("commerce_events")}
}

func (r *mongoCommerceRepo) UpsertEvent(ctx context.Context, event *models.CommerceEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"externalId": event.ExternalID}
	update := bson.M{
		"$set": bson.M{
			"eventType":  event.EventType,
			"payload":    event.Payload,
			"receivedAt": time.Now(),
		},
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"externalId": event.ExternalID,
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// EnsureIndexes creates the necessary indexes on the commerce_events collection.
func (r *mongoCommerceRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "externalId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_external_id"),
	})
	return err
}
