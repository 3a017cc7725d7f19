package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

type membersRepo struct {
	db dbtx
}

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) (domain.Member, error) {
	if m.UPStatus == "" {
		m.UPStatus = domain.DefaultUPStatus
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO members (
			user_id, name, address, unit_college, designation, chapter,
			date_of_appointment, date_of_birth, contact_number, email,
			is_active, up_status, photo_path, signature_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Name, m.Address, m.UnitCollege, m.Designation, m.Chapter,
		m.DateOfAppointment, m.DateOfBirth, m.ContactNumber, m.Email,
		m.IsActive, m.UPStatus, mapOptionalString(m.PhotoPath), mapOptionalString(m.SignaturePath),
	)
	if err != nil {
		return domain.Member{}, mapUniqueViolation(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Member{}, err
	}
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *membersRepo) GetMemberByUserID(ctx context.Context, userID int64) (domain.Member, error) {
	return r.get(ctx, `WHERE user_id = ?`, userID)
}

func (r *membersRepo) MemberStats(ctx context.Context) (domain.MemberStats, error) {
	var st domain.MemberStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN is_active THEN 1 END),
		       COUNT(CASE WHEN up_status = ? THEN 1 END)
		FROM members`, domain.DefaultUPStatus).Scan(&st.Total, &st.Active, &st.InUP)
	return st, err
}

func (r *membersRepo) get(ctx context.Context, where string, arg any) (domain.Member, error) {
	var (
		m         domain.Member
		photo     sql.NullString
		signature sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, address, unit_college, designation, chapter,
		       date_of_appointment, date_of_birth, contact_number, email,
		       is_active, up_status, photo_path, signature_path, created_at, updated_at
		FROM members `+where, arg).Scan(
		&m.ID, &m.UserID, &m.Name, &m.Address, &m.UnitCollege, &m.Designation, &m.Chapter,
		&m.DateOfAppointment, &m.DateOfBirth, &m.ContactNumber, &m.Email,
		&m.IsActive, &m.UPStatus, &photo, &signature, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}

	m.PhotoPath = mapNullStringPtr(photo)
	m.SignaturePath = mapNullStringPtr(signature)
	return m, nil
}
