package handler

import (
	"net/http"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"
)

const HeaderSessionID = "X-Session-ID"

// actorFields is embedded in request bodies that act on behalf of an actor.
type actorFields struct {
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// resolveIDs picks the user id from the token, then the body, then the
// query; the session id from the body, the query, then X-Session-ID.
func resolveIDs(r *http.Request, body actorFields) (userID, sessionID string) {
	q := r.URL.Query()

	userID = UserIDFromContext(r.Context())
	if userID == "" {
		userID = body.UserID
	}
	if userID == "" {
		userID = q.Get("userId")
	}

	sessionID = body.SessionID
	if sessionID == "" {
		sessionID = q.Get("sessionId")
	}
	if sessionID == "" {
		sessionID = r.Header.Get(HeaderSessionID)
	}
	return userID, sessionID
}

func resolveActors(r *http.Request, body actorFields) (models.ActorSet, error) {
	return models.NewActorSet(resolveIDs(r, body))
}
