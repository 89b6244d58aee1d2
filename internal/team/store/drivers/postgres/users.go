package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
)

const userColumns = `id, name, email, phone, password_hash, address, aadhaar_id, id_proof_url,
	parent_id, invited_by, level, is_owner, created_at`

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Phone        string         `db:"phone"`
	PasswordHash string         `db:"password_hash"`
	Address      sql.NullString `db:"address"`
	AadhaarID    sql.NullString `db:"aadhaar_id"`
	IDProofURL   sql.NullString `db:"id_proof_url"`
	ParentID     sql.NullString `db:"parent_id"`
	InvitedBy    sql.NullString `db:"invited_by"`
	Level        int            `db:"level"`
	IsOwner      bool           `db:"is_owner"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		PasswordHash: r.PasswordHash,
		Address:      mapNullStringPtr(r.Address),
		AadhaarID:    mapNullStringPtr(r.AadhaarID),
		IDProofURL:   mapNullStringPtr(r.IDProofURL),
		ParentID:     mapNullStringPtr(r.ParentID),
		InvitedBy:    mapNullStringPtr(r.InvitedBy),
		Level:        r.Level,
		IsOwner:      r.IsOwner,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type usersRepo struct {
	db DBTX
}

func (r *usersRepo) getOne(ctx context.Context, where string, args ...any) (domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *usersRepo) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	return r.getOne(ctx, `phone = $1`, phone)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `email = $1 ORDER BY created_at`, email)
}

func (r *usersRepo) GetOwner(ctx context.Context) (domain.User, error) {
	return r.getOne(ctx, `is_owner`)
}

func (r *usersRepo) ListChildren(ctx context.Context, parentID string) ([]domain.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+userColumns+` FROM users WHERE parent_id = $1 ORDER BY created_at, id`, parentID); err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *usersRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE parent_id = $1`, parentID)
	return n, err
}

// LockUser holds a row lock until the surrounding transaction ends, which
// serializes concurrent registrations under the same parent.
func (r *usersRepo) LockUser(ctx context.Context, id string) error {
	var got string
	err := r.db.GetContext(ctx, &got, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id)
	return mapNotFound(err)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash,
		u.Address, u.AadhaarID, u.IDProofURL, u.ParentID, u.InvitedBy,
		u.Level, u.IsOwner, u.CreatedAt.UTC(),
	)
	return mapWriteError(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error {
	if patch.IsZero() {
		var got string
		return mapNotFound(r.db.GetContext(ctx, &got, `SELECT id FROM users WHERE id = $1`, id))
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
		}
	}
	add("name", patch.Name)
	add("email", patch.Email)
	add("address", patch.Address)
	add("aadhaar_id", patch.AadhaarID)
	add("id_proof_url", patch.IDProofURL)
	args = append(args, id)

	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $`+strconv.Itoa(len(args)), args...))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, newHash, id))
}

var _ store.Users = (*usersRepo)(nil)
