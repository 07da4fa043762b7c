package auth

import (
	"context"

	"exportdesk/internal/models"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Actor is the authenticated identity performing a request: role name,
// optional tenant binding and the admin capability, resolved once when the
// middleware builds the context.
type Actor struct {
	UserID   uint
	Username string
	RoleName string
	ClientID *uint
	Admin    bool
	Active   bool
}

// ActorFromUser builds the actor context for u. Role must be preloaded.
func ActorFromUser(u models.User) Actor {
	return Actor{
		UserID:   u.ID,
		Username: u.Username,
		RoleName: u.Role.Name,
		ClientID: u.ClientID,
		Admin:    u.Role.Name == models.RoleAdministrator,
		Active:   u.IsActive,
	}
}

// Scoped reports whether the actor is confined to a single tenant.
func (a Actor) Scoped() bool {
	return !a.Admin && a.ClientID != nil
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

func FromContext(ctx context.Context) Actor {
	if v, ok := ctx.Value(actorKey).(Actor); ok {
		return v
	}
	return Actor{}
}
