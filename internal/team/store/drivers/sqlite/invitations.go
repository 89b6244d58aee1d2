package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
)

type invitationsRepo struct {
	db DBTX
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, email, member_name, invited_by, token_hash, status, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.MemberName, inv.InvitedBy, inv.TokenHash, string(inv.Status),
		formatTime(inv.CreatedAt), formatTime(inv.ExpiresAt),
	)
	return mapWriteError(err)
}

func (r *invitationsRepo) GetPendingInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	var (
		inv                  domain.Invitation
		status               string
		createdAt, expiresAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, member_name, invited_by, token_hash, status, created_at, expires_at
		 FROM invitations WHERE token_hash = ? AND status = 'pending'`, hash,
	).Scan(&inv.ID, &inv.Email, &inv.MemberName, &inv.InvitedBy, &inv.TokenHash, &status, &createdAt, &expiresAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Status = domain.InvitationStatus(status)
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Invitation{}, err
	}
	if inv.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

func (r *invitationsRepo) HasPendingInvitationForEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invitations WHERE email = ? AND status = 'pending')`, email,
	).Scan(&exists)
	return exists, err
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE invitations SET status = 'accepted' WHERE id = ? AND status = 'pending'`, id))
}

func (r *invitationsRepo) MarkInvitationExpired(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE invitations SET status = 'expired' WHERE id = ? AND status = 'pending'`, id))
}

func (r *invitationsRepo) DeleteAbandonedInvitations(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = 'pending' AND expires_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *invitationsRepo) DeleteFinishedInvitations(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status IN ('accepted', 'expired') AND created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ store.Invitations = (*invitationsRepo)(nil)
