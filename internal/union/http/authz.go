package http

import (
	"errors"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/session"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrLoginRequired = errors.New("login required")
)

// Gate is the access requirement of a dashboard.
type Gate uint8

const (
	GateMember Gate = iota + 1 // any logged-in user
	GateOfficer                // officer or admin
	GateAdmin                  // admin only
)

// Authorize decides whether st may pass g. It never touches the request or
// the store.
func Authorize(g Gate, st session.State) error {
	switch g {
	case GateMember:
		if _, ok := st.UserID(); !ok {
			return ErrLoginRequired
		}
		return nil
	case GateOfficer:
		switch st.Role() {
		case domain.RoleAdmin, domain.RoleOfficer:
			return nil
		case domain.RoleMember, domain.RoleNone:
			return ErrUnauthorized
		}
	case GateAdmin:
		if st.Role() == domain.RoleAdmin {
			return nil
		}
		return ErrUnauthorized
	}
	return ErrUnauthorized
}

// homeFor is the dashboard a role lands on after login.
func homeFor(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleOfficer:
		return "/officer/dashboard"
	case domain.RoleMember:
		return "/member/dashboard"
	case domain.RoleNone:
		return "/login"
	}
	return "/"
}
