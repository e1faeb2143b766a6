package tokenRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"plinio/database"
	"plinio/models"
)

// ErrNotConsumable is returned by ConsumeRedemption when no usable token row
// matched: the token raced to exhaustion, expired, or was revoked between
// the caller's gate checks and the increment.
var ErrNotConsumable = errors.New("delivery token has no redemptions left")

type mongoTokenRepo struct {
	coll *mongo.Collection
}

// NewMongoTokenRepo builds the repository over the delivery_tokens collection.
func NewMongoTokenRepo() TokenRepository {
	return &mongoTokenRepo{coll: database.Collection("delivery_tokens")}
}

func (r *mongoTokenRepo) Create(ctx context.Context, token *models.DeliveryToken) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, token)
	return err
}

func (r *mongoTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*models.DeliveryToken, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var token models.DeliveryToken
	if err := r.coll.FindOne(ctx, bson.M{"tokenHash": tokenHash}).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *mongoTokenRepo) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryToken, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var token models.DeliveryToken
	if err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeRedemption increments downloadCount by one, but only while the
// token is still redeemable. The guard runs inside the filter so the
// check-and-increment is a single atomic document update.
func (r *mongoTokenRepo) ConsumeRedemption(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"tokenHash": tokenHash,
		"revoked":   false,
		"expiresAt": bson.M{"$gt": now},
		"$expr": bson.M{
			"$or": bson.A{
				bson.M{"$lte": bson.A{"$maxDownloads", 0}},
				bson.M{"$lt": bson.A{"$downloadCount", "$maxDownloads"}},
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"downloadCount": 1},
		"$set": bson.M{"lastDownloadAt": now},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotConsumable
	}
	return nil
}

func (r *mongoTokenRepo) Revoke(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
