package challengeRepo

import (
	"context"
	"fmt"

	"habitloop/config"
	"habitloop/database"
	"habitloop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ChallengeRepository exposes the slice of challenge data the reminder sweep
// needs: which challenges are running and who has logged progress today.
type ChallengeRepository interface {
	GetActiveChallenges(ctx context.Context) ([]models.Challenge, error)
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	HasLoggedProgress(ctx context.Context, userID, challengeID, date string) (bool, error)
	LogProgress(ctx context.Context, entry models.ProgressLog) error
}

// MongoChallengeRepo implements ChallengeRepository using MongoDB.
type MongoChallengeRepo struct {
	challenges *mongo.Collection
	progress   *mongo.Collection
}

// NewMongoChallengeRepo creates a new ChallengeRepository backed by MongoDB.
func NewMongoChallengeRepo() ChallengeRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &MongoChallengeRepo{
		challenges: db.Collection("challenges"),
		progress:   db.Collection("progress_logs"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}
