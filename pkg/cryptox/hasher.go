package cryptox

import (
	"errors"
	"strings"
)

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("password does not match")

// ErrUnknownScheme is returned when an encoded hash has no recognised prefix.
var ErrUnknownScheme = errors.New("unknown password hash scheme")

// Hasher turns plaintext passwords into self-describing encoded hashes and
// checks candidates against them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) error
}

// Auto hashes with Primary and verifies against whichever scheme the encoded
// hash names, so rows written under a previous PASSWORD_HASHER keep working.
type Auto struct {
	Primary Hasher
	Argon2  *Argon2id
	Bcrypt  *Bcrypt
}

func (a Auto) Hash(plain string) (string, error) {
	return a.Primary.Hash(plain)
}

func (a Auto) Verify(plain, encoded string) error {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$") && a.Argon2 != nil:
		return a.Argon2.Verify(plain, encoded)
	case isBcrypt(encoded) && a.Bcrypt != nil:
		return a.Bcrypt.Verify(plain, encoded)
	default:
		return ErrUnknownScheme
	}
}

func isBcrypt(encoded string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, p) {
			return true
		}
	}
	return false
}
