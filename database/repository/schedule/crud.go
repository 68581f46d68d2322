package scheduleRepo

import (
	"context"
	"errors"
	"time"

	"habitloop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Save upserts a reminder record by its ID. Creating and updating are not
// distinguished.
func (r *MongoScheduleRepo) Save(ctx context.Context, rec models.ScheduledNotification) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": rec.ID}, rec, opts); err != nil {
		return StorageUnavailableError{Err: err}
	}
	return nil
}

// GetAll returns every reminder record. An empty store yields an empty slice.
func (r *MongoScheduleRepo) GetAll(ctx context.Context) ([]models.ScheduledNotification, error) {
	return r.find(ctx, bson.M{})
}

// GetByUser returns all reminder records owned by a user.
func (r *MongoScheduleRepo) GetByUser(ctx context.Context, userID string) ([]models.ScheduledNotification, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *MongoScheduleRepo) find(ctx context.Context, filter bson.M) ([]models.ScheduledNotification, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, StorageUnavailableError{Err: err}
	}
	defer cursor.Close(ctx)

	recs := []models.ScheduledNotification{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, StorageUnavailableError{Err: err}
	}
	return recs, nil
}

// GetByID returns a reminder record by its ID, or nil when absent.
func (r *MongoScheduleRepo) GetByID(ctx context.Context, id string) (*models.ScheduledNotification, error) {
	var rec models.ScheduledNotification
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, StorageUnavailableError{Err: err}
	}
	return &rec, nil
}

// Delete removes a reminder record by ID. Deleting an absent ID is a no-op.
func (r *MongoScheduleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return StorageUnavailableError{Err: err}
	}
	return nil
}
