package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkwise/database"
	"parkwise/models"
	"parkwise/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	SlotCollection    = "parking_slots"
	ArchiveCollection = "completed_parkings"
)

// MongoSlotRepo implements SlotRepository using MongoDB.
type MongoSlotRepo struct {
	coll        *mongo.Collection
	archiveColl *mongo.Collection
}

// NewMongoSlotRepo creates a new instance of SlotRepository using MongoDB.
func NewMongoSlotRepo() SlotRepository {
	db := database.DB()
	repo := &MongoSlotRepo{
		coll:        db.Collection(SlotCollection),
		archiveColl: db.Collection(ArchiveCollection),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("slot repository: index setup failed", zap.Error(err))
	}
	return repo
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

var activeStatuses = bson.A{models.SlotReserved, models.SlotOccupied, models.SlotLeaving}

// slotDocument is the stored form of a slot. activeBooking mirrors bookedBy only while the
// slot is reserved, occupied or leaving, and carries the one-active-slot unique index.
type slotDocument struct {
	models.Slot   `bson:",inline"`
	ActiveBooking string `bson:"activeBooking,omitempty"`
}

func toDocument(s models.Slot) slotDocument {
	doc := slotDocument{Slot: s}
	if s.Status.Active() {
		doc.ActiveBooking = s.BookedBy
	}
	return doc
}

func (r *MongoSlotRepo) InsertMany(ctx context.Context, slots []models.Slot) error {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(slots))
	for _, s := range slots {
		docs = append(docs, toDocument(s))
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert slots: %w", err)
	}
	return nil
}

func (r *MongoSlotRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return int(n), nil
}

func (r *MongoSlotRepo) findOne(ctx context.Context, filter bson.M) (*models.Slot, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch slot: %w", err)
	}
	return &slot, nil
}

func (r *MongoSlotRepo) find(ctx context.Context, filter bson.M) ([]models.Slot, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.Slot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *MongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoSlotRepo) GetAll(ctx context.Context) ([]models.Slot, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoSlotRepo) GetVisibleTo(ctx context.Context, userID string) ([]models.Slot, error) {
	return r.find(ctx, bson.M{
		"$or": []bson.M{
			{"status": models.SlotAvailable},
			{"status": models.SlotReserved, "bookedBy": userID},
		},
	})
}

func (r *MongoSlotRepo) GetActiveByUser(ctx context.Context, userID string) (*models.Slot, error) {
	return r.findOne(ctx, bson.M{
		"bookedBy": userID,
		"status":   bson.M{"$in": activeStatuses},
	})
}

func (r *MongoSlotRepo) GetPendingOccupied(ctx context.Context) ([]models.Slot, error) {
	return r.find(ctx, bson.M{"occupiedRequestStatus": models.RequestPending})
}

func (r *MongoSlotRepo) GetByStatus(ctx context.Context, status models.SlotStatus) ([]models.Slot, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoSlotRepo) CountByStatus(ctx context.Context) (map[models.SlotStatus]int, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate slot statuses: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.SlotStatus]int)
	for cursor.Next(ctx) {
		var row struct {
			Status models.SlotStatus `bson:"_id"`
			Count  int               `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode status count: %w", err)
		}
		counts[row.Status] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return counts, nil
}

// replace swaps the stored document for slot when the version matches. Replacing the
// whole document drops every optional field the new state leaves unset.
func (r *MongoSlotRepo) replace(ctx context.Context, slot *models.Slot) error {
	expected := slot.Version
	next := *slot
	next.Version = expected + 1
	next.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": slot.ID, "version": expected}, toDocument(next))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrActiveBookingExists
		}
		return fmt.Errorf("failed to save slot %s: %w", slot.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	*slot = next
	return nil
}

func (r *MongoSlotRepo) Save(ctx context.Context, slot *models.Slot) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.replace(ctx, slot)
}

func (r *MongoSlotRepo) SaveWithArchive(ctx context.Context, slot *models.Slot, record *models.CompletedParking) error {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	// replace mutates slot only after the write succeeds, so work on a copy and
	// publish it once the transaction commits.
	working := *slot
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		working = *slot
		if _, err := r.archiveColl.InsertOne(sc, record); err != nil {
			return nil, fmt.Errorf("insert archive record failed: %w", err)
		}
		if err := r.replace(sc, &working); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrActiveBookingExists) {
			return err
		}
		return fmt.Errorf("completion transaction failed: %w", err)
	}
	*slot = working
	return nil
}
