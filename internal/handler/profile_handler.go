package handler

import (
	"context"
	"net/http"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"
	"github.com/appdotbuilder/next-watch-recommender/internal/service"

	"github.com/go-chi/chi/v5"
)

type Profiles interface {
	CreateProfile(ctx context.Context, data service.CreateProfileData) (*models.UserDoc, error)
	Login(ctx context.Context, email, password string) (string, *models.UserDoc, error)
	GetProfile(ctx context.Context, id string) (*models.UserDoc, error)
	UpdateProfile(ctx context.Context, id string, data service.UpdateProfileData) (*models.UserDoc, error)
}

type ProfileHandler struct {
	svc Profiles
}

func NewProfileHandler(s Profiles) *ProfileHandler {
	return &ProfileHandler{svc: s}
}

type createProfileRequest struct {
	Username       string   `json:"username" validate:"required,min=3,max=32"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	DisplayName    string   `json:"displayName,omitempty" validate:"max=64"`
	Bio            string   `json:"bio,omitempty" validate:"max=500"`
	FavoriteGenres []string `json:"favoriteGenres,omitempty" validate:"max=20"`
}

// @Summary Create profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body createProfileRequest true "profile"
// @Success 201 {object} models.UserDoc
// @Failure 400 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /profiles [post]
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.CreateProfile(r.Context(), service.CreateProfileData{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		FavoriteGenres: req.FavoriteGenres,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} errorBody
// @Router /auth/login [post]
func (h *ProfileHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}

// @Summary Get profile
// @Tags profiles
// @Produce json
// @Param id path string true "profile id"
// @Success 200 {object} models.UserDoc
// @Failure 404 {object} errorBody
// @Router /profiles/{id} [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	Username       *string   `json:"username" validate:"omitempty,min=3,max=32"`
	Email          *string   `json:"email" validate:"omitempty,email"`
	Password       *string   `json:"password" validate:"omitempty,min=8,max=72"`
	DisplayName    *string   `json:"displayName" validate:"omitempty,max=64"`
	Bio            *string   `json:"bio" validate:"omitempty,max=500"`
	FavoriteGenres *[]string `json:"favoriteGenres" validate:"omitempty,max=20"`
}

// @Summary Update own profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "profile id"
// @Param body body updateProfileRequest true "fields to change"
// @Success 200 {object} models.UserDoc
// @Failure 403 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /profiles/{id} [patch]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if UserIDFromContext(r.Context()) != id {
		writeError(w, r, apperr.Forbidden("can only update your own profile"))
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), id, service.UpdateProfileData{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		FavoriteGenres: req.FavoriteGenres,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
