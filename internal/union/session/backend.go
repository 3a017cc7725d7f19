package session

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
)

// ErrNoSession is returned by a Backend when no record exists for a key.
var ErrNoSession = errors.New("session: not found")

// Backend stores session records keyed by the fingerprint of the opaque
// session token.
type Backend interface {
	Save(ctx context.Context, key string, id domain.Identity) error
	Get(ctx context.Context, key string) (domain.Identity, error)

	// Delete is a no-op for unknown keys.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

// SQLBackend keeps sessions in the sessions table of the main store.
type SQLBackend struct {
	Store store.Store
}

func (b *SQLBackend) Save(ctx context.Context, key string, id domain.Identity) error {
	return b.Store.Sessions().CreateSession(ctx, domain.Session{
		IDHash:   key,
		UserID:   id.ID,
		Username: id.Username,
		Role:     id.Role,
	})
}

func (b *SQLBackend) Get(ctx context.Context, key string) (domain.Identity, error) {
	s, err := b.Store.Sessions().GetSession(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrNoSession
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return s.Identity(), nil
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	return b.Store.Sessions().DeleteSession(ctx, key)
}

func (b *SQLBackend) Ping(ctx context.Context) error {
	return b.Store.Ping(ctx)
}
