package handler

import (
	"context"
	"net/http"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"
)

type Interactions interface {
	Record(ctx context.Context, actors models.ActorSet, mediaItemID string, kind models.InteractionKind) (*models.Interaction, error)
	List(ctx context.Context, actors models.ActorSet, kind models.InteractionKind) ([]models.InteractionWithMedia, error)
}

type InteractionHandler struct {
	svc Interactions
}

func NewInteractionHandler(s Interactions) *InteractionHandler {
	return &InteractionHandler{svc: s}
}

type interactionRequest struct {
	actorFields
	MediaItemID string `json:"mediaItemId" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=like dislike watched_liked watched_disliked add_to_watchlist remove_from_watchlist"`
}

// @Summary Record interaction
// @Description Creates or replaces the actor's interaction with a media item.
// @Tags interactions
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "guest session id"
// @Param body body interactionRequest true "interaction"
// @Success 200 {object} models.Interaction
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /interactions [post]
func (h *InteractionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actors, err := resolveActors(r, req.actorFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.svc.Record(r.Context(), actors, req.MediaItemID, models.InteractionKind(req.Kind))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// @Summary List interactions
// @Tags interactions
// @Produce json
// @Param userId query string false "user id"
// @Param sessionId query string false "guest session id"
// @Param kind query string false "filter by kind"
// @Success 200 {array} models.InteractionWithMedia
// @Router /interactions [get]
func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	actors, err := resolveActors(r, actorFields{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.List(r.Context(), actors, models.InteractionKind(r.URL.Query().Get("kind")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
