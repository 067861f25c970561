package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the name of the MongoDB collection holding user profiles
const UsersCollection = "users"

type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user profile repository
func NewMongoUserRepository(db *mongo.Database) *mongoUserRepository {
	return &mongoUserRepository{
		collection: db.Collection(UsersCollection),
	}
}

// GetByID retrieves a user profile by its auth-provider uid
func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Upsert inserts a profile or refreshes the mutable fields of an existing one
func (r *mongoUserRepository) Upsert(ctx context.Context, user *models.User) error {
	update := bson.M{
		"$set": bson.M{
			"email":       user.Email,
			"displayName": user.DisplayName,
			"photoUrl":    user.PhotoURL,
			"updatedAt":   user.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": user.CreatedAt},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
