package customer

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore reads and writes the customer reference on user documents keyed
// by _id = userID.
type MongoStore struct {
	coll  *mongo.Collection
	field string
}

func NewMongoStore(db *mongo.Database, cfg Config) *MongoStore {
	cfg = cfg.withDefaults()
	return &MongoStore{
		coll:  db.Collection(cfg.Collection),
		field: cfg.Field,
	}
}

func (s *MongoStore) CustomerID(ctx context.Context, userID string) (string, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{s.field: 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	id, _ := doc[s.field].(string)
	return id, nil
}

// SetCustomerIDIfAbsent upserts the reference only where the field is
// missing or empty. If the document already holds a reference the upsert
// collides on _id, and the stored value is read back.
func (s *MongoStore) SetCustomerIDIfAbsent(ctx context.Context, userID, customerID string) (string, error) {
	filter := bson.M{
		"_id":   userID,
		s.field: bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{
		"$set": bson.M{
			s.field:     customerID,
			"updatedAt": time.Now().UTC(),
		},
	}

	_, err := s.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err == nil {
		return customerID, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return "", err
	}

	stored, readErr := s.CustomerID(ctx, userID)
	if readErr != nil {
		return "", errors.Join(err, readErr)
	}
	if stored == "" {
		return "", err
	}
	return stored, nil
}
