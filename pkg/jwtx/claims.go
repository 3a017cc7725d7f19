package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a session cookie. The session token itself is opaque and
// only meaningful to the session backend.
type Claims struct {
	jwt.RegisteredClaims

	// Session token
	SID string `json:"sid"`
}

// NewSessionClaims builds claims for sid. A zero ttl produces a token with
// no expiry, leaving lifetime to the cookie and the backend.
func NewSessionClaims(sid, issuer string, ttl time.Duration, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		SID: sid,
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return c
}
