package userRepo

import (
	"context"
	"fmt"

	"habitloop/config"
	"habitloop/database"
	"habitloop/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository exposes the user data the reminder pipeline needs: identity
// lookup and the registered push target.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateFCMToken(ctx context.Context, id, token string) error
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}
