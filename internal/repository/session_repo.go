package repository

import (
	"context"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/db"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(database *mongo.Database) *SessionRepository {
	return &SessionRepository{col: database.Collection(db.CollGuestSessions)}
}

func (r *SessionRepository) Insert(ctx context.Context, s *models.GuestSession) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

// Touch bumps lastSeenAt and returns the session, nil when unknown.
func (r *SessionRepository) Touch(ctx context.Context, token string) (*models.GuestSession, error) {
	var s models.GuestSession
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": token},
		bson.M{"$set": bson.M{"lastSeenAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
