package domain

import "time"

// Session is a server-side session row. IDHash is the fingerprint of the
// opaque token, never the token itself.
type Session struct {
	IDHash    string
	UserID    int64
	Username  string
	Role      Role
	CreatedAt time.Time
}

func (s Session) Identity() Identity {
	return Identity{ID: s.UserID, Username: s.Username, Role: s.Role}
}
