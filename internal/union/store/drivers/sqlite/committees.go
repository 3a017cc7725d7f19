package sqlite

import (
	"context"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

type committeesRepo struct {
	db dbtx
}

func (r *committeesRepo) GetCommitteeByName(ctx context.Context, name string) (domain.Committee, error) {
	var c domain.Committee
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM committees WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Committee{}, mapNotFound(err)
	}
	return c, nil
}

func (r *committeesRepo) CreateCommittee(ctx context.Context, c domain.Committee) (domain.Committee, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO committees (name, description) VALUES (?, ?)`, c.Name, c.Description,
	)
	if err != nil {
		return domain.Committee{}, mapUniqueViolation(err)
	}
	return r.GetCommitteeByName(ctx, c.Name)
}

// ListCommittees returns committees in catalog (insertion) order.
func (r *committeesRepo) ListCommittees(ctx context.Context) ([]domain.Committee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM committees ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Committee
	for rows.Next() {
		var c domain.Committee
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *committeesRepo) CountCommittees(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM committees`).Scan(&n)
	return n, err
}
