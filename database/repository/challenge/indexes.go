package challengeRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
func (r *MongoChallengeRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	challengeIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}
	if _, err := r.challenges.Indexes().CreateMany(ctx, challengeIdx); err != nil {
		return fmt.Errorf("failed to create challenge indexes: %w", err)
	}

	progressIdx := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "challengeId", Value: 1},
			{Key: "date", Value: 1},
		}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.progress.Indexes().CreateMany(ctx, progressIdx); err != nil {
		return fmt.Errorf("failed to create progress indexes: %w", err)
	}
	return nil
}
