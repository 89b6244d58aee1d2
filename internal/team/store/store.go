package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrChildLimit is returned by CreateUser when the parent already has
	// domain.MaxDirectChildren children.
	ErrChildLimit = errors.New("store: child limit reached")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose sub-repositories so transactional code can only
// reach the repos of its own Tx.
type Store interface {
	Users() Users
	Invitations() Invitations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByPhone is used during login.
	GetUserByPhone(ctx context.Context, phone string) (domain.User, error)

	// GetUserByEmail returns the first user with email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetOwner returns the root user.
	GetOwner(ctx context.Context) (domain.User, error)

	// ListChildren returns the direct children of parentID, oldest first.
	ListChildren(ctx context.Context, parentID string) ([]domain.User, error)

	CountChildren(ctx context.Context, parentID string) (int, error)

	// LockUser takes a write lock on the user row for the rest of the
	// transaction. Outside a transaction it only checks existence.
	LockUser(ctx context.Context, id string) error

	// CreateUser inserts a new user. A duplicate phone yields ErrAlreadyExists
	// and a full parent yields ErrChildLimit.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies the non-nil fields of patch.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error

	UpdatePasswordHash(ctx context.Context, id string, newHash string) error
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetPendingInvitationByTokenHash returns a pending invitation, expired or not.
	GetPendingInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// HasPendingInvitationForEmail reports whether email has a pending invitation.
	HasPendingInvitationForEmail(ctx context.Context, email string) (bool, error)

	// MarkInvitationAccepted flips a pending invitation to accepted. It returns
	// ErrNotFound when the invitation is no longer pending.
	MarkInvitationAccepted(ctx context.Context, id string) error

	// MarkInvitationExpired flips a pending invitation to expired. It returns
	// ErrNotFound when the invitation is no longer pending.
	MarkInvitationExpired(ctx context.Context, id string) error

	// DeleteAbandonedInvitations removes pending invitations whose expiry
	// passed before cutoff. Pending invitations are never flipped here; the
	// first lookup past expiry does that.
	DeleteAbandonedInvitations(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteFinishedInvitations removes accepted and expired invitations
	// created before cutoff.
	DeleteFinishedInvitations(ctx context.Context, cutoff time.Time) (int64, error)
}
