package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"parkwise/database"
	"parkwise/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a new CompletedParkingRepository instance using MongoDB.
// Indexes for the archive are created by the slot repository, which shares the collection.
func NewMongoRecordRepo() CompletedParkingRepository {
	return &mongoRecordRepo{
		coll: database.DB().Collection("completed_parkings"),
	}
}

// Create inserts a new archive record, assigning an ID when missing.
func (r *mongoRecordRepo) Create(ctx context.Context, record *models.CompletedParking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to archive parking for slot %s: %w", record.SlotID, err)
	}
	return nil
}

func (r *mongoRecordRepo) find(ctx context.Context, filter bson.M, limit int) ([]models.CompletedParking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "completedTime", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve archive: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.CompletedParking{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	return records, nil
}

// GetByUser fetches all records for one account, newest first.
func (r *mongoRecordRepo) GetByUser(ctx context.Context, userID string) ([]models.CompletedParking, error) {
	return r.find(ctx, bson.M{"user": userID}, 0)
}

func (r *mongoRecordRepo) GetRecent(ctx context.Context, limit int) ([]models.CompletedParking, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *mongoRecordRepo) Summary(ctx context.Context) (models.RevenueStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$cost"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RevenueStats{}, fmt.Errorf("failed to aggregate archive: %w", err)
	}
	defer cursor.Close(ctx)

	var stats models.RevenueStats
	if cursor.Next(ctx) {
		var row struct {
			Count   int   `bson:"count"`
			Revenue int64 `bson:"revenue"`
		}
		if err := cursor.Decode(&row); err != nil {
			return models.RevenueStats{}, fmt.Errorf("failed to decode archive summary: %w", err)
		}
		stats.CompletedParkings = row.Count
		stats.TotalRevenue = row.Revenue
	}
	return stats, cursor.Err()
}
