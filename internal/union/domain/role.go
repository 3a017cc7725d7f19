package domain

import (
	"errors"
	"fmt"
)

// Role is the authorization level attached to a user. The zero value is
// RoleNone, which is what an anonymous request carries.
type Role uint8

const (
	RoleNone Role = iota
	RoleMember
	RoleOfficer
	RoleAdmin
)

var ErrUnknownRole = errors.New("domain: unknown role")

// String returns the stored form of the role.
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleOfficer:
		return "officer"
	case RoleAdmin:
		return "admin"
	case RoleNone:
		return "none"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// ParseRole maps the stored form back to a Role. Only the three assignable
// roles are accepted.
func ParseRole(s string) (Role, error) {
	switch s {
	case "member":
		return RoleMember, nil
	case "officer":
		return RoleOfficer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether r can be stored on a user.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleOfficer, RoleAdmin:
		return true
	default:
		return false
	}
}
