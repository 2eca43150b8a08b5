package models

import "github.com/appdotbuilder/next-watch-recommender/internal/apperr"

type ActorKind uint8

const (
	ActorUser ActorKind = iota + 1
	ActorGuest
)

// Actor is either a registered user or a guest session.
type Actor struct {
	Kind ActorKind
	ID   string
}

func UserActor(userID string) Actor     { return Actor{Kind: ActorUser, ID: userID} }
func GuestActor(sessionID string) Actor { return Actor{Kind: ActorGuest, ID: sessionID} }

// Key is the stored form: "u:<userId>" or "g:<sessionId>".
func (a Actor) Key() string {
	switch a.Kind {
	case ActorUser:
		return "u:" + a.ID
	case ActorGuest:
		return "g:" + a.ID
	default:
		return ""
	}
}

// ActorRef is the field set persisted next to every actor-owned row.
type ActorRef struct {
	ActorKey  string `bson:"actorKey" json:"-"`
	UserID    string `bson:"userId,omitempty" json:"userId,omitempty"`
	SessionID string `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
}

func (a Actor) Ref() ActorRef {
	switch a.Kind {
	case ActorUser:
		return ActorRef{ActorKey: a.Key(), UserID: a.ID}
	case ActorGuest:
		return ActorRef{ActorKey: a.Key(), SessionID: a.ID}
	default:
		return ActorRef{}
	}
}

// ActorSet holds the identities supplied with one request. User and guest
// are distinct actors; reads union them, writes go to Writer().
type ActorSet struct {
	user  *Actor
	guest *Actor
}

func NewActorSet(userID, sessionID string) (ActorSet, error) {
	var s ActorSet
	if userID != "" {
		a := UserActor(userID)
		s.user = &a
	}
	if sessionID != "" {
		a := GuestActor(sessionID)
		s.guest = &a
	}
	if s.user == nil && s.guest == nil {
		return ActorSet{}, apperr.InvalidActor()
	}
	return s, nil
}

// Writer is the identity used for writes: the user when present.
func (s ActorSet) Writer() Actor {
	if s.user != nil {
		return *s.user
	}
	if s.guest != nil {
		return *s.guest
	}
	return Actor{}
}

func (s ActorSet) User() (Actor, bool) {
	if s.user == nil {
		return Actor{}, false
	}
	return *s.user, true
}

func (s ActorSet) All() []Actor {
	out := make([]Actor, 0, 2)
	if s.user != nil {
		out = append(out, *s.user)
	}
	if s.guest != nil {
		out = append(out, *s.guest)
	}
	return out
}

func (s ActorSet) Keys() []string {
	all := s.All()
	keys := make([]string, 0, len(all))
	for _, a := range all {
		keys = append(keys, a.Key())
	}
	return keys
}

func (s ActorSet) Empty() bool { return s.user == nil && s.guest == nil }
