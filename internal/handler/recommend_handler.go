package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/appdotbuilder/next-watch-recommender/internal/apperr"
	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Recommender interface {
	Generate(ctx context.Context, actors models.ActorSet, limit int) ([]models.RecommendationWithMedia, error)
	Next(ctx context.Context, actors models.ActorSet) (*models.RecommendationWithMedia, error)
	History(ctx context.Context, actors models.ActorSet, limit, offset int) ([]models.RecommendationWithMedia, error)
}

type RecommendHandler struct {
	svc          Recommender
	interactions Interactions
}

func NewRecommendHandler(s Recommender, i Interactions) *RecommendHandler {
	return &RecommendHandler{svc: s, interactions: i}
}

type generateRequest struct {
	actorFields
	Limit int `json:"limit,omitempty" validate:"min=0,max=50"`
}

// @Summary Generate recommendations
// @Description Scores unseen catalog items and stores the best as unshown recommendations.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body generateRequest true "actor and limit (default 10, max 50)"
// @Success 201 {array} models.RecommendationWithMedia
// @Failure 400 {object} errorBody
// @Router /recommendations/generate [post]
func (h *RecommendHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actors, err := resolveActors(r, req.actorFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recs, err := h.svc.Generate(r.Context(), actors, req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recs)
}

// @Summary Next recommendation
// @Description Pops the best unshown recommendation and marks it shown. 204 when none is left.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body actorFields false "actor"
// @Success 200 {object} models.RecommendationWithMedia
// @Success 204
// @Router /recommendations/next [post]
func (h *RecommendHandler) Next(w http.ResponseWriter, r *http.Request) {
	var req actorFields
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actors, err := resolveActors(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := h.svc.Next(r.Context(), actors)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// @Summary Recommendation history
// @Tags recommendations
// @Produce json
// @Param userId query string false "user id"
// @Param sessionId query string false "guest session id"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} models.RecommendationWithMedia
// @Router /recommendations [get]
func (h *RecommendHandler) History(w http.ResponseWriter, r *http.Request) {
	actors, err := resolveActors(r, actorFields{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	recs, err := h.svc.History(r.Context(), actors, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// ====== WebSocket swipe stream ======

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsReadLimit = 4096
	wsIdle      = 2 * time.Minute
)

// wsMessage is what clients send: {"type":"next"}, {"type":"generate","limit":5}
// or {"type":"swipe","mediaItemId":"...","kind":"like"}.
type wsMessage struct {
	Type        string `json:"type"`
	Limit       int    `json:"limit,omitempty"`
	MediaItemID string `json:"mediaItemId,omitempty"`
	Kind        string `json:"kind,omitempty"`
}

// @Summary Swipe stream (WebSocket)
// @Description Each "next" message pops one recommendation; "swipe" records an interaction; "generate" tops the queue up.
// @Tags recommendations
// @Param userId query string false "user id"
// @Param sessionId query string false "guest session id"
// @Success 101
// @Router /recommendations/ws [get]
func (h *RecommendHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actors, err := resolveActors(r, actorFields{})
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	ctx := r.Context()

	_ = conn.WriteJSON(map[string]any{"type": "ready", "actors": actors.Keys()})

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdle))

		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ws: read ended")
			}
			return
		}

		reply := h.handleWS(ctx, actors, msg)
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug().Err(err).Msg("ws: write failed")
			return
		}
	}
}

func (h *RecommendHandler) handleWS(ctx context.Context, actors models.ActorSet, msg wsMessage) map[string]any {
	switch msg.Type {
	case "next":
		rec, err := h.svc.Next(ctx, actors)
		if err != nil {
			return wsError(err)
		}
		if rec == nil {
			return map[string]any{"type": "empty"}
		}
		return map[string]any{"type": "recommendation", "item": rec}

	case "generate":
		recs, err := h.svc.Generate(ctx, actors, msg.Limit)
		if err != nil {
			return wsError(err)
		}
		return map[string]any{"type": "generated", "count": len(recs)}

	case "swipe":
		if h.interactions == nil {
			return wsError(apperr.Invalid("type", "swipes are not enabled"))
		}
		it, err := h.interactions.Record(ctx, actors, msg.MediaItemID, models.InteractionKind(msg.Kind))
		if err != nil {
			return wsError(err)
		}
		return map[string]any{"type": "recorded", "interaction": it}

	default:
		return wsError(apperr.Invalid("type", "must be next, generate or swipe"))
	}
}

func wsError(err error) map[string]any {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Wrap(apperr.KindInternal, "internal", "internal error", err)
	}
	if apperr.KindOf(ae) == apperr.KindInternal {
		log.Error().Err(err).Msg("ws: request failed")
	}
	return map[string]any{
		"type":  "error",
		"error": errorDetail{Code: ae.Code, Message: ae.Message},
	}
}
