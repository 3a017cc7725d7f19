package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/aussiebroadwan/aupwu/pkg/cryptox"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
)

var (
	ErrMissingField = errors.New("missing required field")

	ErrConflict          = errors.New("conflict")
	ErrDuplicateUsername = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrDuplicateEmail    = fmt.Errorf("%w: email already exists", ErrConflict)

	// ErrNoMatch never says whether the username or the password was wrong.
	ErrNoMatch = errors.New("invalid username or password")
)

// CredentialService owns user identities and their password hashes.
type CredentialService struct {
	Store  store.Store
	Hasher cryptox.Hasher

	dummyOnce sync.Once
	dummyHash string
}

// CreateUser registers a new account. Username uniqueness is checked before
// email, and a constraint violation from a concurrent insert maps to the same
// duplicate errors.
func (s *CredentialService) CreateUser(
	ctx context.Context,
	username, email, password string,
	role domain.Role,
) (domain.Identity, error) {
	if username == "" || email == "" || password == "" {
		return domain.Identity{}, ErrMissingField
	}
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("create user: %w", domain.ErrUnknownRole)
	}
	return createUser(ctx, s.Store, s.Hasher, username, email, password, role)
}

// createUser is shared with the bootstrap seeder, which runs it inside a
// transaction.
func createUser(
	ctx context.Context,
	st store.Store,
	hasher cryptox.Hasher,
	username, email, password string,
	role domain.Role,
) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	if _, err := st.Users().GetUserByUsername(ctx, username); err == nil {
		return domain.Identity{}, ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, err
	}

	if _, err := st.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.Identity{}, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := st.Users().CreateUser(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	switch {
	case errors.Is(err, store.ErrUniqueUsername):
		return domain.Identity{}, ErrDuplicateUsername
	case errors.Is(err, store.ErrUniqueEmail):
		return domain.Identity{}, ErrDuplicateEmail
	case err != nil:
		return domain.Identity{}, err
	}

	l.Info("user created",
		slog.Int64("user_id", u.ID),
		slog.String("username", u.Username),
		slog.String("role", u.Role.String()),
	)
	return u.Identity(), nil
}

// VerifyCredentials checks a username and password pair. It has no side
// effects. An unknown username still costs one hash verification so response
// time does not reveal which usernames exist.
func (s *CredentialService) VerifyCredentials(ctx context.Context, username, password string) (domain.Identity, error) {
	if username == "" || password == "" {
		return domain.Identity{}, ErrNoMatch
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.verifyDummy(password)
			return domain.Identity{}, ErrNoMatch
		}
		return domain.Identity{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			slogx.FromContext(ctx).Warn("stored password hash rejected",
				slog.Int64("user_id", u.ID),
				slog.Any("error", err),
			)
		}
		return domain.Identity{}, ErrNoMatch
	}

	return u.Identity(), nil
}

// verifyDummy runs the hasher against a throwaway hash, created on first use.
func (s *CredentialService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("aupwu-dummy-password")
	})
	if s.dummyHash != "" {
		_ = s.Hasher.Verify(password, s.dummyHash)
	}
}
