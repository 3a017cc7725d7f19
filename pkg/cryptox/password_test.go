package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestArgon2idHash(t *testing.T) {
	h := &Argon2id{Pepper: "pepper"}

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.NoError(t, h.Verify(tt.password, hash))
			require.ErrorIs(t, h.Verify(tt.password+"x", hash), ErrMismatch)
		})
	}
}

func TestArgon2idUniqueSalts(t *testing.T) {
	h := &Argon2id{}

	a, err := h.Hash("samepassword")
	require.NoError(t, err)
	b, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "hashes should differ due to unique salts")
}

func TestArgon2idPepperMatters(t *testing.T) {
	hash, err := (&Argon2id{Pepper: "one"}).Hash("secret")
	require.NoError(t, err)

	require.ErrorIs(t, (&Argon2id{Pepper: "two"}).Verify("secret", hash), ErrMismatch)
}

func TestArgon2idRejectsMalformed(t *testing.T) {
	h := &Argon2id{}
	for _, enc := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		err := h.Verify("x", enc)
		require.Error(t, err, "input %q", enc)
		require.NotErrorIs(t, err, ErrMismatch)
	}
}

func TestBcryptHashAndVerify(t *testing.T) {
	h := &Bcrypt{Cost: bcrypt.MinCost}

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2a$"))

	require.NoError(t, h.Verify("secret", hash))
	require.ErrorIs(t, h.Verify("wrong", hash), ErrMismatch)
}

func TestAutoDispatchesOnPrefix(t *testing.T) {
	argon := &Argon2id{Pepper: "p"}
	bc := &Bcrypt{Cost: bcrypt.MinCost}
	auto := Auto{Primary: argon, Argon2: argon, Bcrypt: bc}

	a, err := auto.Hash("secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(a, "$argon2id$"))
	require.NoError(t, auto.Verify("secret", a))

	b, err := bc.Hash("secret")
	require.NoError(t, err)
	require.NoError(t, auto.Verify("secret", b))
	require.ErrorIs(t, auto.Verify("nope", b), ErrMismatch)

	require.ErrorIs(t, auto.Verify("secret", "plaintext"), ErrUnknownScheme)
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper should persist across loads")
}
