package session

import (
	"context"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

// State is either Anonymous (the zero value) or Authenticated.
type State struct {
	identity      domain.Identity
	authenticated bool
}

// Anonymous is the state of a request with no valid session.
var Anonymous = State{}

func Authenticated(id domain.Identity) State {
	return State{identity: id, authenticated: true}
}

func (s State) Authenticated() bool { return s.authenticated }

// UserID returns the session's user id, or (0, false) when anonymous.
func (s State) UserID() (int64, bool) {
	if !s.authenticated {
		return 0, false
	}
	return s.identity.ID, true
}

func (s State) Username() string { return s.identity.Username }

// Role returns domain.RoleNone when anonymous.
func (s State) Role() domain.Role {
	if !s.authenticated {
		return domain.RoleNone
	}
	return s.identity.Role
}

type ctxKey struct{}

func WithState(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the State stored by Manager.Middleware, or Anonymous.
func FromContext(ctx context.Context) State {
	s, _ := ctx.Value(ctxKey{}).(State)
	return s
}
