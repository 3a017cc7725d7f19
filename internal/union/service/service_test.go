package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/aupwu/internal/union/store/drivers/sqlite"
	"github.com/aussiebroadwan/aupwu/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestHasher() cryptox.Hasher {
	return &cryptox.Argon2id{Pepper: "test-pepper"}
}

func newCredentialService(t *testing.T) (*CredentialService, *sqlite.Store) {
	t.Helper()
	st := newTestStore(t)
	return &CredentialService{Store: st, Hasher: newTestHasher()}, st
}

var bg = context.Background()
