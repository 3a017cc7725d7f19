package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/aussiebroadwan/aupwu/pkg/cryptox"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
)

// DefaultAdminPassword is the literal the seeder falls back to when no admin
// password is configured. It is public knowledge; override ADMIN_PASSWORD in
// any real deployment.
const DefaultAdminPassword = "secret"

// BootstrapService ensures the default admin account and the committee
// catalog exist. It is safe to run on every start.
type BootstrapService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Data   domain.BootstrapData
}

// Bootstrap runs the seed inside a single transaction. Any error is meant to
// abort startup.
func (s *BootstrapService) Bootstrap(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	var (
		adminCreated bool
		committees   int
		total        int64
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if adminCreated, err = s.ensureAdmin(ctx, tx); err != nil {
			return err
		}
		if committees, err = s.ensureCommittees(ctx, tx); err != nil {
			return err
		}
		total, err = tx.Committees().CountCommittees(ctx)
		return err
	})
	if err != nil {
		l.Error("bootstrap failed", slog.Any("error", err))
		return fmt.Errorf("bootstrap: %w", err)
	}

	l.Info("bootstrap complete",
		slog.Bool("admin_created", adminCreated),
		slog.Int("committees_created", committees),
		slog.Int64("committees_total", total),
	)
	return nil
}

func (s *BootstrapService) ensureAdmin(ctx context.Context, tx store.Tx) (bool, error) {
	l := slogx.FromContext(ctx)

	_, err := tx.Users().GetUserByUsername(ctx, s.Data.AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	if s.Data.AdminPassword == DefaultAdminPassword {
		l.Warn("creating admin account with the default password; set ADMIN_PASSWORD",
			slog.String("username", s.Data.AdminUsername),
		)
	}

	id, err := createUser(ctx, tx, s.Hasher,
		s.Data.AdminUsername, s.Data.AdminEmail, s.Data.AdminPassword, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	l.Info("admin account created", slog.Int64("user_id", id.ID))
	return true, nil
}

// ensureCommittees inserts each catalog entry whose exact name is missing,
// in catalog order.
func (s *BootstrapService) ensureCommittees(ctx context.Context, tx store.Tx) (int, error) {
	var created int
	for _, seed := range s.Data.Committees {
		_, err := tx.Committees().GetCommitteeByName(ctx, seed.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return created, err
		}

		if _, err := tx.Committees().CreateCommittee(ctx, domain.Committee{
			Name:        seed.Name,
			Description: seed.Description,
		}); err != nil {
			return created, fmt.Errorf("create committee %q: %w", seed.Name, err)
		}
		created++
	}
	return created, nil
}
