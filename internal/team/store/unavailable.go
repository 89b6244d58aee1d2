package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
)

// Unavailable returns a Store whose every operation fails with cause. It
// stands in for a database that could not be opened at startup so the
// process can keep serving health checks.
func Unavailable(cause error) Store {
	return unavailable{err: fmt.Errorf("store unavailable: %w", cause)}
}

type unavailable struct{ err error }

func (u unavailable) Users() Users             { return u }
func (u unavailable) Invitations() Invitations { return u }

func (u unavailable) ApplyMigrations() error                       { return u.err }
func (u unavailable) Tx(context.Context) (Tx, error)               { return nil, u.err }
func (u unavailable) WithTx(context.Context, func(Tx) error) error { return u.err }
func (u unavailable) Close() error                                 { return nil }
func (u unavailable) Ping(context.Context) error                   { return u.err }

func (u unavailable) GetUserByID(context.Context, string) (domain.User, error) {
	return domain.User{}, u.err
}

func (u unavailable) GetUserByPhone(context.Context, string) (domain.User, error) {
	return domain.User{}, u.err
}

func (u unavailable) GetUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, u.err
}

func (u unavailable) GetOwner(context.Context) (domain.User, error) {
	return domain.User{}, u.err
}

func (u unavailable) ListChildren(context.Context, string) ([]domain.User, error) {
	return nil, u.err
}

func (u unavailable) CountChildren(context.Context, string) (int, error) { return 0, u.err }
func (u unavailable) LockUser(context.Context, string) error             { return u.err }
func (u unavailable) CreateUser(context.Context, domain.User) error      { return u.err }

func (u unavailable) UpdateUser(context.Context, string, domain.UserPatch) error { return u.err }
func (u unavailable) UpdatePasswordHash(context.Context, string, string) error   { return u.err }

func (u unavailable) CreateInvitation(context.Context, domain.Invitation) error { return u.err }

func (u unavailable) GetPendingInvitationByTokenHash(context.Context, string) (domain.Invitation, error) {
	return domain.Invitation{}, u.err
}

func (u unavailable) HasPendingInvitationForEmail(context.Context, string) (bool, error) {
	return false, u.err
}

func (u unavailable) MarkInvitationAccepted(context.Context, string) error { return u.err }
func (u unavailable) MarkInvitationExpired(context.Context, string) error  { return u.err }

func (u unavailable) DeleteAbandonedInvitations(context.Context, time.Time) (int64, error) {
	return 0, u.err
}

func (u unavailable) DeleteFinishedInvitations(context.Context, time.Time) (int64, error) {
	return 0, u.err
}
