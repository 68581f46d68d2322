package scheduleRepo

import (
	"context"
	"fmt"

	"habitloop/config"
	"habitloop/database"
	"habitloop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduledNotificationRepository is the durable store of reminder records.
// It is the single source of truth; the delivery worker's armed timers are a
// derived cache rebuilt from this store on every sync.
type ScheduledNotificationRepository interface {
	Save(ctx context.Context, rec models.ScheduledNotification) error
	GetAll(ctx context.Context) ([]models.ScheduledNotification, error)
	GetByUser(ctx context.Context, userID string) ([]models.ScheduledNotification, error)
	GetByID(ctx context.Context, id string) (*models.ScheduledNotification, error)
	Delete(ctx context.Context, id string) error
}

// MongoScheduleRepo implements ScheduledNotificationRepository using MongoDB.
type MongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo creates a new ScheduledNotificationRepository backed by MongoDB.
func NewMongoScheduleRepo() ScheduledNotificationRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("scheduled_notifications")
	repo := &MongoScheduleRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}
