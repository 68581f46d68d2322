package challengeRepo

import (
	"context"
	"time"

	"habitloop/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// GetActiveChallenges returns all challenges currently marked active.
func (r *MongoChallengeRepo) GetActiveChallenges(ctx context.Context) ([]models.Challenge, error) {
	cursor, err := r.challenges.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var challenges []models.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// GetByID returns a challenge by its ID.
func (r *MongoChallengeRepo) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	var ch models.Challenge
	if err := r.challenges.FindOne(ctx, bson.M{"id": id}).Decode(&ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// HasLoggedProgress reports whether the user logged progress for the
// challenge on the given calendar day (YYYY-MM-DD).
func (r *MongoChallengeRepo) HasLoggedProgress(ctx context.Context, userID, challengeID, date string) (bool, error) {
	count, err := r.progress.CountDocuments(ctx, bson.M{
		"userId":      userID,
		"challengeId": challengeID,
		"date":        date,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LogProgress inserts a progress entry for a participant.
func (r *MongoChallengeRepo) LogProgress(ctx context.Context, entry models.ProgressLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	_, err := r.progress.InsertOne(ctx, entry)
	return err
}
