package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUniqueUsername and ErrUniqueEmail are returned when a write trips the
	// corresponding unique constraint on users. Both wrap ErrAlreadyExists.
	ErrUniqueUsername = fmt.Errorf("%w: username", ErrAlreadyExists)
	ErrUniqueEmail    = fmt.Errorf("%w: email", ErrAlreadyExists)
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a Tx exposes exactly the same
// surface and nested transactions cannot be started by accident.
type Store interface {
	Users() Users
	Members() Members
	Committees() Committees
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u and returns it with ID and timestamps populated.
	// Unique violations come back as ErrUniqueUsername or ErrUniqueEmail.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// DeleteUser cascades to members and sessions.
	DeleteUser(ctx context.Context, id int64) error

	CountUsers(ctx context.Context) (int64, error)
	// CountUsersByRole omits roles nobody holds.
	CountUsersByRole(ctx context.Context) (map[domain.Role]int64, error)
}

type Members interface {
	CreateMember(ctx context.Context, m domain.Member) (domain.Member, error)
	GetMemberByUserID(ctx context.Context, userID int64) (domain.Member, error)
	MemberStats(ctx context.Context) (domain.MemberStats, error)
}

type Committees interface {
	GetCommitteeByName(ctx context.Context, name string) (domain.Committee, error)
	CreateCommittee(ctx context.Context, c domain.Committee) (domain.Committee, error)
	ListCommittees(ctx context.Context) ([]domain.Committee, error)
	CountCommittees(ctx context.Context) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, idHash string) (domain.Session, error)

	// DeleteSession is a no-op for unknown hashes.
	DeleteSession(ctx context.Context, idHash string) error

	// DeleteSessionsOlderThan removes rows created more than age ago and
	// returns how many were removed.
	DeleteSessionsOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
