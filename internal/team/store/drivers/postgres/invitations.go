package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
)

type invitationRow struct {
	ID         string    `db:"id"`
	Email      string    `db:"email"`
	MemberName string    `db:"member_name"`
	InvitedBy  string    `db:"invited_by"`
	TokenHash  string    `db:"token_hash"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	ExpiresAt  time.Time `db:"expires_at"`
}

type invitationsRepo struct {
	db DBTX
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, email, member_name, invited_by, token_hash, status, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.Email, inv.MemberName, inv.InvitedBy, inv.TokenHash, string(inv.Status),
		inv.CreatedAt.UTC(), inv.ExpiresAt.UTC(),
	)
	return mapWriteError(err)
}

func (r *invitationsRepo) GetPendingInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	var row invitationRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, email, member_name, invited_by, token_hash, status, created_at, expires_at
		 FROM invitations WHERE token_hash = $1 AND status = 'pending'`, hash)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	return domain.Invitation{
		ID:         row.ID,
		Email:      row.Email,
		MemberName: row.MemberName,
		InvitedBy:  row.InvitedBy,
		TokenHash:  row.TokenHash,
		Status:     domain.InvitationStatus(row.Status),
		CreatedAt:  row.CreatedAt.UTC(),
		ExpiresAt:  row.ExpiresAt.UTC(),
	}, nil
}

func (r *invitationsRepo) HasPendingInvitationForEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM invitations WHERE email = $1 AND status = 'pending')`, email)
	return exists, err
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE invitations SET status = 'accepted' WHERE id = $1 AND status = 'pending'`, id))
}

func (r *invitationsRepo) MarkInvitationExpired(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE invitations SET status = 'expired' WHERE id = $1 AND status = 'pending'`, id))
}

func (r *invitationsRepo) DeleteAbandonedInvitations(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = 'pending' AND expires_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *invitationsRepo) DeleteFinishedInvitations(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status IN ('accepted', 'expired') AND created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ store.Invitations = (*invitationsRepo)(nil)
