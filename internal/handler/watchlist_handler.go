package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"
)

type Watchlist interface {
	Add(ctx context.Context, actors models.ActorSet, mediaItemID string) (*models.WatchlistItem, error)
	Remove(ctx context.Context, userID, sessionID, mediaItemID string) (bool, error)
	List(ctx context.Context, actors models.ActorSet, limit, offset int) ([]models.WatchlistItem, error)
}

type WatchlistHandler struct {
	svc Watchlist
}

func NewWatchlistHandler(s Watchlist) *WatchlistHandler { return &WatchlistHandler{svc: s} }

type watchlistRequest struct {
	actorFields
	MediaItemID string `json:"mediaItemId" validate:"required"`
}

// @Summary Add to watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Param body body watchlistRequest true "item"
// @Success 200 {object} models.WatchlistItem
// @Failure 404 {object} errorBody
// @Router /watchlist [post]
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req watchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actors, err := resolveActors(r, req.actorFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.svc.Add(r.Context(), actors, req.MediaItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// @Summary Remove from watchlist
// @Description Returns removed=false only when no actor was given.
// @Tags watchlist
// @Accept json
// @Produce json
// @Param body body watchlistRequest true "item"
// @Success 200 {object} map[string]bool
// @Router /watchlist [delete]
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req watchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	userID, sessionID := resolveIDs(r, req.actorFields)

	removed, err := h.svc.Remove(r.Context(), userID, sessionID, req.MediaItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// @Summary List watchlist
// @Tags watchlist
// @Produce json
// @Param userId query string false "user id"
// @Param sessionId query string false "guest session id"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} models.WatchlistItem
// @Router /watchlist [get]
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	actors, err := resolveActors(r, actorFields{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.svc.List(r.Context(), actors, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
