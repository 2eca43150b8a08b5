package service

import (
	"context"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/google/uuid"
)

type SessionService struct {
	sessions SessionStore
}

func NewSessionService(sessions SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

// CreateSession starts an anonymous guest session.
func (s *SessionService) CreateSession(ctx context.Context) (*models.GuestSession, error) {
	now := time.Now().UTC()
	gs := &models.GuestSession{
		Token:      uuid.NewString(),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.sessions.Insert(ctx, gs); err != nil {
		return nil, apperr.StoreFailure(err)
	}
	return gs, nil
}

func (s *SessionService) GetSession(ctx context.Context, token string) (*models.GuestSession, error) {
	if token == "" {
		return nil, apperr.NotFound("session")
	}
	gs, err := s.sessions.Touch(ctx, token)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	if gs == nil {
		return nil, apperr.NotFound("session")
	}
	return gs, nil
}
