package service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newBootstrapService(t *testing.T) (*BootstrapService, *CredentialService) {
	t.Helper()
	creds, st := newCredentialService(t)
	return &BootstrapService{
		Store:  st,
		Hasher: creds.Hasher,
		Data: domain.BootstrapData{
			AdminUsername: "admin",
			AdminEmail:    "admin@aupwu.org",
			AdminPassword: DefaultAdminPassword,
			Committees:    domain.DefaultCommittees,
		},
	}, creds
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc, creds := newBootstrapService(t)

	require.NoError(t, svc.Bootstrap(bg))
	require.NoError(t, svc.Bootstrap(bg))

	users, err := svc.Store.Users().CountUsers(bg)
	require.NoError(t, err)
	require.EqualValues(t, 1, users)

	committees, err := svc.Store.Committees().ListCommittees(bg)
	require.NoError(t, err)
	require.Len(t, committees, 15)
	for i, c := range committees {
		require.Equal(t, domain.DefaultCommittees[i].Name, c.Name)
		require.Equal(t, domain.DefaultCommittees[i].Description, c.Description)
	}

	id, err := creds.VerifyCredentials(bg, "admin", "secret")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, id.Role)
}

func TestBootstrapFillsMissingCommitteesWhenAdminExists(t *testing.T) {
	svc, creds := newBootstrapService(t)

	_, err := creds.CreateUser(bg, "admin", "admin@aupwu.org", "custom", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Store.Committees().CreateCommittee(bg, domain.Committee{Name: "Finance Committee", Description: "kept"})
	require.NoError(t, err)

	require.NoError(t, svc.Bootstrap(bg))

	n, err := svc.Store.Committees().CountCommittees(bg)
	require.NoError(t, err)
	require.EqualValues(t, 15, n)

	c, err := svc.Store.Committees().GetCommitteeByName(bg, "Finance Committee")
	require.NoError(t, err)
	require.Equal(t, "kept", c.Description, "existing rows are left untouched")

	_, err = creds.VerifyCredentials(bg, "admin", "custom")
	require.NoError(t, err, "existing admin password is not reset")
}

func TestBootstrapAbortsAtomically(t *testing.T) {
	svc, creds := newBootstrapService(t)

	// The admin email is already taken by another account, so creating the
	// admin fails and nothing from the seed may be committed.
	_, err := creds.CreateUser(bg, "someone", "admin@aupwu.org", "pw", domain.RoleMember)
	require.NoError(t, err)

	err = svc.Bootstrap(bg)
	require.ErrorIs(t, err, ErrDuplicateEmail)

	n, err := svc.Store.Committees().CountCommittees(bg)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBootstrapLogsCommitteeTotal(t *testing.T) {
	svc, _ := newBootstrapService(t)

	_, err := svc.Store.Committees().CreateCommittee(bg, domain.Committee{Name: "Social Club", Description: "extra"})
	require.NoError(t, err)

	var buf bytes.Buffer
	ctx := slogx.WithContext(bg, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, svc.Bootstrap(ctx))

	var last map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		require.NoError(t, json.Unmarshal(line, &last))
	}
	require.Equal(t, "bootstrap complete", last["msg"])
	require.EqualValues(t, 15, last["committees_created"])
	require.EqualValues(t, 16, last["committees_total"])
}
