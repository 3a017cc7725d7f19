package postgres

import (
	"errors"

	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

func mapUserConstraint(err error) error {
	var perr *pq.Error
	if !errors.As(err, &perr) || perr.Code != uniqueViolation {
		return err
	}

	switch perr.Constraint {
	case "users_username_key":
		return store.ErrUniqueUsername
	case "users_email_key":
		return store.ErrUniqueEmail
	default:
		return store.ErrAlreadyExists
	}
}

func mapUniqueViolation(err error) error {
	var perr *pq.Error
	if errors.As(err, &perr) && perr.Code == uniqueViolation {
		return store.ErrAlreadyExists
	}
	return err
}
