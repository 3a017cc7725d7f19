package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id_hash, user_id, username, role) VALUES ($1, $2, $3, $4)`,
		s.IDHash, s.UserID, s.Username, s.Role.String(),
	)
	return mapUniqueViolation(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, idHash string) (domain.Session, error) {
	var (
		s    domain.Session
		role string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id_hash, user_id, username, role, created_at FROM sessions WHERE id_hash = $1`, idHash,
	).Scan(&s.IDHash, &s.UserID, &s.Username, &role, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	if s.Role, err = domain.ParseRole(role); err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, idHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id_hash = $1`, idHash)
	return err
}

func (r *sessionsRepo) DeleteSessionsOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE created_at < now() - make_interval(secs => $1)`,
		age.Seconds(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
