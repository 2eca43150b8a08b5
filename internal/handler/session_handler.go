package handler

import (
	"context"
	"net/http"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/go-chi/chi/v5"
)

type Sessions interface {
	CreateSession(ctx context.Context) (*models.GuestSession, error)
	GetSession(ctx context.Context, token string) (*models.GuestSession, error)
}

type SessionHandler struct {
	svc Sessions
}

func NewSessionHandler(s Sessions) *SessionHandler { return &SessionHandler{svc: s} }

// @Summary Start guest session
// @Tags sessions
// @Produce json
// @Success 201 {object} models.GuestSession
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.CreateSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// @Summary Get guest session
// @Tags sessions
// @Produce json
// @Param token path string true "session id"
// @Success 200 {object} models.GuestSession
// @Failure 404 {object} errorBody
// @Router /sessions/{token} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
