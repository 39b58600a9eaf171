package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for fields frequently used in queries. The partial
// unique index on activeBooking lets at most one active slot reference an account.
func (r *MongoSlotRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slotIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{
			Keys: bson.D{{Key: "activeBooking", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("activeBooking_unique").
				SetPartialFilterExpression(bson.M{"activeBooking": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "bookedBy", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, slotIndexes); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}

	archiveIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "completedTime", Value: -1}}},
		{Keys: bson.D{{Key: "slotId", Value: 1}}},
	}
	if _, err := r.archiveColl.Indexes().CreateMany(ctx, archiveIndexes); err != nil {
		return fmt.Errorf("failed to create archive indexes: %w", err)
	}
	return nil
}
