package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

type membersRepo struct {
	db dbtx
}

const memberColumns = `id, user_id, name, address, unit_college, designation, chapter,
	date_of_appointment, date_of_birth, contact_number, email,
	is_active, up_status, photo_path, signature_path, created_at, updated_at`

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) (domain.Member, error) {
	if m.UPStatus == "" {
		m.UPStatus = domain.DefaultUPStatus
	}

	out, err := scanMember(r.db.QueryRowContext(ctx, `
		INSERT INTO members (
			user_id, name, address, unit_college, designation, chapter,
			date_of_appointment, date_of_birth, contact_number, email,
			is_active, up_status, photo_path, signature_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+memberColumns,
		m.UserID, m.Name, m.Address, m.UnitCollege, m.Designation, m.Chapter,
		m.DateOfAppointment, m.DateOfBirth, m.ContactNumber, m.Email,
		m.IsActive, m.UPStatus, m.PhotoPath, m.SignaturePath,
	))
	if err != nil {
		return domain.Member{}, mapUniqueViolation(err)
	}
	return out, nil
}

func (r *membersRepo) GetMemberByUserID(ctx context.Context, userID int64) (domain.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE user_id = $1`, userID,
	))
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) MemberStats(ctx context.Context) (domain.MemberStats, error) {
	var st domain.MemberStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN is_active THEN 1 END),
		       COUNT(CASE WHEN up_status = $1 THEN 1 END)
		FROM members`, domain.DefaultUPStatus).Scan(&st.Total, &st.Active, &st.InUP)
	return st, err
}

func scanMember(row *sql.Row) (domain.Member, error) {
	var (
		m         domain.Member
		photo     sql.NullString
		signature sql.NullString
	)
	err := row.Scan(
		&m.ID, &m.UserID, &m.Name, &m.Address, &m.UnitCollege, &m.Designation, &m.Chapter,
		&m.DateOfAppointment, &m.DateOfBirth, &m.ContactNumber, &m.Email,
		&m.IsActive, &m.UPStatus, &photo, &signature, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Member{}, err
	}

	if photo.Valid {
		m.PhotoPath = &photo.String
	}
	if signature.Valid {
		m.SignaturePath = &signature.String
	}
	return m, nil
}
