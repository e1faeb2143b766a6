package orderRepo

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

type mongoOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoOrderRepo builds the repository over the orders collection.
func NewMongoOrderRepo() OrderRepository {
	return &mongoOrderRepo{coll: database.Collection("orders")}
}

// Upsert inserts a new order, or updates the mutable fields of the existing
// row with the same paymentIntentId. The second return value reports whether
// a new row was created.
func (r *mongoOrderRepo) Upsert(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"paymentIntentId": order.PaymentIntentID}
	update := bson.M{
		"$set": bson.M{
			"productId":     order.ProductID,
			"productName":   order.ProductName,
			"customerEmail": order.CustomerEmail,
			"amountCents":   order.AmountCents,
			"currency":      order.Currency,
			"status":        order.Status,
			"metadata":      order.Metadata,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"id":              uuid.New().String(),
			"paymentIntentId": order.PaymentIntentID,
			"createdAt":       now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Order
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, false, err
	}
	inserted := stored.CreatedAt.Equal(stored.UpdatedAt)
	return &stored, inserted, nil
}

func (r *mongoOrderRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"paymentIntentId": paymentIntentID}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *mongoOrderRepo) ListRecent(ctx context.Context, limit int64) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
