package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const idempotencyKeysCollection = "idempotency_keys"

// MongoKeyRepository implements KeyRepository using MongoDB
type MongoKeyRepository struct {
	collection *mongo.Collection
}

// NewMongoKeyRepository creates a new MongoDB-backed key repository
func NewMongoKeyRepository(db *mongo.Database) *MongoKeyRepository {
	return &MongoKeyRepository{collection: db.Collection(idempotencyKeysCollection)}
}

// AcquireLock upserts on (serviceId, userId, key). The stored document keeps the
// first claimant's id, so a different id in the result means the key was seen.
func (r *MongoKeyRepository) AcquireLock(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
	now := time.Now().UTC()

	filter := bson.M{"serviceId": key.ServiceID, "userId": key.UserID, "key": key.Key}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":                key.ID,
			"requestPath":        key.RequestPath,
			"requestMethod":      key.RequestMethod,
			"requestFingerprint": key.RequestFingerprint,
			"lockedAt":           now,
			"createdAt":          key.CreatedAt,
			"expiresAt":          key.ExpiresAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var result IdempotencyKey
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		// a concurrent upsert of the same key lost the race on the unique index
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.Get(ctx, key.Key, key.ServiceID, key.UserID)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to acquire idempotency key: %w", err)
	}

	return &result, result.ID == key.ID, nil
}

// ReleaseLock deletes the key so a retry can run the request again
func (r *MongoKeyRepository) ReleaseLock(ctx context.Context, keyID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": keyID, "completedAt": bson.M{"$exists": false}}); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// StoreResponse completes the key with the response to replay
func (r *MongoKeyRepository) StoreResponse(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error {
	update := bson.M{
		"$set": bson.M{
			"responseCode":    responseCode,
			"responseBody":    responseBody,
			"responseHeaders": headers,
			"completedAt":     time.Now().UTC(),
		},
		"$unset": bson.M{"lockedAt": ""},
	}

	result, err := r.collection.UpdateByID(ctx, keyID, update)
	if err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves an idempotency key by its key string, service ID and caller
func (r *MongoKeyRepository) Get(ctx context.Context, key, serviceID, userID string) (*IdempotencyKey, error) {
	var result IdempotencyKey
	err := r.collection.FindOne(ctx, bson.M{"serviceId": serviceID, "userId": userID, "key": key}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}
	return &result, nil
}

// Clean removes expired idempotency keys
func (r *MongoKeyRepository) Clean(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": before}})
	if err != nil {
		return 0, fmt.Errorf("failed to clean idempotency keys: %w", err)
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates the unique claim index and the expiry TTL index
func (r *MongoKeyRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "serviceId", Value: 1}, {Key: "userId", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_service_user_key"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_ttl"),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create idempotency indexes: %w", err)
	}
	return nil
}
