package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s store.Store, username, email string, role domain.Role) domain.User {
	t.Helper()
	u, err := s.Users().CreateUser(context.Background(), domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	u := createUser(t, s, "alice", "alice@x.com", domain.RoleMember)
	require.NotZero(t, u.ID)
	require.Equal(t, domain.RoleMember, u.Role)
	require.False(t, u.CreatedAt.IsZero())

	byName, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u, byName)

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByID(ctx, 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCountUsersByRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	byRole, err := s.Users().CountUsersByRole(ctx)
	require.NoError(t, err)
	require.Empty(t, byRole)

	createUser(t, s, "admin", "admin@x.com", domain.RoleAdmin)
	createUser(t, s, "alice", "alice@x.com", domain.RoleMember)
	createUser(t, s, "bob", "bob@x.com", domain.RoleMember)

	byRole, err = s.Users().CountUsersByRole(ctx)
	require.NoError(t, err)
	require.Equal(t, map[domain.Role]int64{domain.RoleAdmin: 1, domain.RoleMember: 2}, byRole)
}

func TestCreateUserUniqueViolations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "alice", "alice@x.com", domain.RoleMember)

	_, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", Email: "other@x.com", PasswordHash: "h", Role: domain.RoleMember})
	require.ErrorIs(t, err, store.ErrUniqueUsername)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().CreateUser(ctx, domain.User{Username: "alice2", Email: "alice@x.com", PasswordHash: "h", Role: domain.RoleMember})
	require.ErrorIs(t, err, store.ErrUniqueEmail)

	n, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRoleCheckConstraint(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO users (username, email, password_hash, role) VALUES ('x', 'x@x', 'h', 'root')`)
	require.Error(t, err)
}

func TestMembersCascadeOnUserDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "alice", "alice@x.com", domain.RoleMember)

	photo := "uploads/alice.png"
	m, err := s.Members().CreateMember(ctx, domain.Member{
		UserID:            u.ID,
		Name:              "Alice Santos",
		Address:           "Diliman, Quezon City",
		UnitCollege:       "College of Science",
		Designation:       "Administrative Officer",
		Chapter:           "Diliman",
		DateOfAppointment: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
		DateOfBirth:       time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC),
		ContactNumber:     "09171234567",
		Email:             "alice@x.com",
		IsActive:          true,
		PhotoPath:         &photo,
	})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultUPStatus, m.UPStatus)
	require.Equal(t, &photo, m.PhotoPath)
	require.Nil(t, m.SignaturePath)
	require.True(t, m.DateOfBirth.Equal(time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC)))

	got, err := s.Members().GetMemberByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)

	stats, err := s.Members().MemberStats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.MemberStats{Total: 1, Active: 1, InUP: 1}, stats)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err = s.Members().GetMemberByUserID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	stats, err = s.Members().MemberStats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Total)
}

func TestCommittees(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, seed := range domain.DefaultCommittees[:3] {
		_, err := s.Committees().CreateCommittee(ctx, domain.Committee{Name: seed.Name, Description: seed.Description})
		require.NoError(t, err)
	}

	_, err := s.Committees().CreateCommittee(ctx, domain.Committee{Name: domain.DefaultCommittees[0].Name})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	list, err := s.Committees().ListCommittees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, c := range list {
		require.Equal(t, domain.DefaultCommittees[i].Name, c.Name)
	}

	_, err = s.Committees().GetCommitteeByName(ctx, "Nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "admin", "admin@aupwu.org", domain.RoleAdmin)

	sess := domain.Session{IDHash: "hash-1", UserID: u.ID, Username: u.Username, Role: u.Role}
	require.NoError(t, s.Sessions().CreateSession(ctx, sess))

	got, err := s.Sessions().GetSession(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, u.Identity(), got.Identity())

	require.NoError(t, s.Sessions().DeleteSession(ctx, "hash-1"))
	require.NoError(t, s.Sessions().DeleteSession(ctx, "hash-1"))

	_, err = s.Sessions().GetSession(ctx, "hash-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSessionsOlderThan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "alice", "alice@x.com", domain.RoleMember)

	require.NoError(t, s.Sessions().CreateSession(ctx, domain.Session{IDHash: "old", UserID: u.ID, Username: u.Username, Role: u.Role}))
	require.NoError(t, s.Sessions().CreateSession(ctx, domain.Session{IDHash: "new", UserID: u.ID, Username: u.Username, Role: u.Role}))

	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET created_at = datetime('now', '-2 hours') WHERE id_hash = 'old'`)
	require.NoError(t, err)

	n, err := s.Sessions().DeleteSessionsOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Sessions().GetSession(ctx, "new")
	require.NoError(t, err)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		createUser(t, tx, "ghost", "ghost@x.com", domain.RoleMember)
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Users().GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.Error(t, err, "nested transactions are rejected")
		createUser(t, tx, "kept", "kept@x.com", domain.RoleMember)
		return nil
	})
	require.NoError(t, err)

	_, err = s.Users().GetUserByUsername(ctx, "kept")
	require.NoError(t, err)
}
