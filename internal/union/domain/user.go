package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // PHC argon2id or bcrypt
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated subject held by a session.
type Identity struct {
	ID       int64
	Username string
	Role     Role
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}
