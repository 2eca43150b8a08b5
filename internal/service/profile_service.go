package service

import (
	"context"
	"strings"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type ProfileService struct {
	users     UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

type CreateProfileData struct {
	Username       string
	Email          string
	Password       string
	DisplayName    string
	Bio            string
	FavoriteGenres []string
}

// UpdateProfileData carries a partial update; nil fields are left alone.
type UpdateProfileData struct {
	Username       *string
	Email          *string
	Password       *string
	DisplayName    *string
	Bio            *string
	FavoriteGenres *[]string
}

func NewProfileService(users UserStore, secret string, tokenTTL time.Duration) *ProfileService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &ProfileService{users: users, jwtSecret: []byte(secret), tokenTTL: tokenTTL}
}

// ================== CREATE & LOGIN ==================

func (s *ProfileService) CreateProfile(ctx context.Context, data CreateProfileData) (*models.UserDoc, error) {
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	data.Username = strings.TrimSpace(data.Username)

	if err := s.ensureFree(ctx, primitive.NilObjectID, data.Username, data.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &models.UserDoc{
		Username:       data.Username,
		Email:          data.Email,
		DisplayName:    data.DisplayName,
		Bio:            data.Bio,
		FavoriteGenres: data.FavoriteGenres,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if data.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "password_hash", "could not hash password", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Insert(ctx, u); err != nil {
		if apperr.Is(err, apperr.CodeDuplicateIdentity) {
			return nil, err
		}
		return nil, apperr.StoreFailure(err)
	}
	return u, nil
}

// Login checks the password and issues an HS256 token whose sub is the user id.
func (s *ProfileService) Login(ctx context.Context, email, password string) (string, *models.UserDoc, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, apperr.StoreFailure(err)
	}
	if u == nil || u.PasswordHash == "" {
		return "", nil, apperr.Unauthorized()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.ID.Hex(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	sToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.KindInternal, "token_sign", "could not issue token", err)
	}
	return sToken, u, nil
}

// ================== READ & UPDATE ==================

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.UserDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("profile")
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	if u == nil {
		return nil, apperr.NotFound("profile")
	}
	return u, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id string, data UpdateProfileData) (*models.UserDoc, error) {
	u, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{}

	var username, email string
	if data.Username != nil {
		username = strings.TrimSpace(*data.Username)
		if username == "" {
			return nil, apperr.Invalid("username", "cannot be empty")
		}
		update["username"] = username
	}
	if data.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*data.Email))
		if email == "" {
			return nil, apperr.Invalid("email", "cannot be empty")
		}
		update["email"] = email
	}
	if err := s.ensureFree(ctx, u.ID, username, email); err != nil {
		return nil, err
	}

	if data.Password != nil {
		if *data.Password == "" {
			return nil, apperr.Invalid("password", "cannot be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*data.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "password_hash", "could not hash password", err)
		}
		update["passwordHash"] = string(hash)
	}
	if data.DisplayName != nil {
		update["displayName"] = *data.DisplayName
	}
	if data.Bio != nil {
		update["bio"] = *data.Bio
	}
	if data.FavoriteGenres != nil {
		update["favoriteGenres"] = *data.FavoriteGenres
	}

	if len(update) == 0 {
		return u, nil
	}
	update["updatedAt"] = time.Now().UTC()

	if err := s.users.UpdateByID(ctx, u.ID, update); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) || apperr.Is(err, apperr.CodeDuplicateIdentity) {
			return nil, err
		}
		return nil, apperr.StoreFailure(err)
	}
	return s.GetProfile(ctx, id)
}

// ensureFree fails with DuplicateIdentity when username or email belongs to
// a user other than self. Empty values are skipped. The unique indexes still
// catch races past this check.
func (s *ProfileService) ensureFree(ctx context.Context, self primitive.ObjectID, username, email string) error {
	if username != "" {
		other, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return apperr.StoreFailure(err)
		}
		if other != nil && other.ID != self {
			return apperr.DuplicateIdentity("username")
		}
	}
	if email != "" {
		other, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return apperr.StoreFailure(err)
		}
		if other != nil && other.ID != self {
			return apperr.DuplicateIdentity("email")
		}
	}
	return nil
}

// ensureUser is used by writers that accept a user id.
func ensureUser(ctx context.Context, users UserStore, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("user")
	}
	u, err := users.FindByID(ctx, oid)
	if err != nil {
		return apperr.StoreFailure(err)
	}
	if u == nil {
		return apperr.NotFound("user")
	}
	return nil
}
