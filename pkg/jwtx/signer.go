package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrNoSID      = errors.New("jwtx: missing sid")
	ErrWeakSecret = errors.New("jwtx: secret must not be empty")
)

// HS256 signs and verifies session cookies with a shared secret.
type HS256 struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewHS256 creates an HMAC-SHA256 signer for secret.
func NewHS256(secret, issuer string) (*HS256, error) {
	if secret == "" {
		return nil, ErrWeakSecret
	}
	return &HS256{key: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Sign wraps sid in a signed JWT.
func (s *HS256) Sign(sid string, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, NewSessionClaims(sid, s.issuer, ttl, s.now()))
	return t.SignedString(s.key)
}

// Verify checks the signature, issuer and expiry, returning the sid.
func (s *HS256) Verify(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return "", ErrIssuer
		default:
			return "", fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrMalformed
	}
	if claims.SID == "" {
		return "", ErrNoSID
	}
	return claims.SID, nil
}
