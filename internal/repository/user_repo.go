package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/db"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{col: database.Collection(db.CollUsers)}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserDoc, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.UserDoc, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserDoc, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *models.UserDoc) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, u)
	return identityErr(err)
}

// UpdateByID applies a partial $set to the user.
func (r *UserRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	if err != nil {
		return identityErr(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("profile")
	}
	return nil
}

// identityErr turns a unique index collision into DuplicateIdentity so
// callers never see driver errors for it.
func identityErr(err error) error {
	if field := duplicateKeyField(err); field != "" {
		return apperr.DuplicateIdentity(field)
	}
	return err
}

// duplicateKeyField names the unique field a write collided on ("email",
// "username"), or "" when err is not a duplicate key error.
func duplicateKeyField(err error) string {
	if !mongo.IsDuplicateKeyError(err) {
		return ""
	}
	var we mongo.WriteException
	msg := err.Error()
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		msg = we.WriteErrors[0].Message
	}
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "username"):
		return "username"
	default:
		return "identity"
	}
}
