package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
)

const userColumns = `id, name, email, phone, password_hash, address, aadhaar_id, id_proof_url,
	parent_id, invited_by, level, is_owner, created_at`

type usersRepo struct {
	db DBTX
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                                        domain.User
		address, aadhaar, proof, parent, inviter sql.NullString
		createdAt                                string
	)
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&address, &aadhaar, &proof, &parent, &inviter,
		&u.Level, &u.IsOwner, &createdAt,
	); err != nil {
		return domain.User{}, err
	}

	ts, err := parseTime(createdAt)
	if err != nil {
		return domain.User{}, err
	}

	u.Address = mapNullStringPtr(address)
	u.AadhaarID = mapNullStringPtr(aadhaar)
	u.IDProofURL = mapNullStringPtr(proof)
	u.ParentID = mapNullStringPtr(parent)
	u.InvitedBy = mapNullStringPtr(inviter)
	u.CreatedAt = ts
	return u, nil
}

func (r *usersRepo) getOne(ctx context.Context, where string, args ...any) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *usersRepo) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	return r.getOne(ctx, `phone = ?`, phone)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `email = ? ORDER BY created_at`, email)
}

func (r *usersRepo) GetOwner(ctx context.Context) (domain.User, error) {
	return r.getOne(ctx, `is_owner = 1`)
}

func (r *usersRepo) ListChildren(ctx context.Context, parentID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE parent_id = ? ORDER BY created_at, id`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE parent_id = ?`, parentID).Scan(&n)
	return n, err
}

// LockUser only checks existence; the connection pool already serializes
// writers.
func (r *usersRepo) LockUser(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	return mapNotFound(err)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash,
		mapOptionalString(u.Address), mapOptionalString(u.AadhaarID), mapOptionalString(u.IDProofURL),
		mapOptionalString(u.ParentID), mapOptionalString(u.InvitedBy),
		u.Level, u.IsOwner, formatTime(u.CreatedAt),
	)
	return mapWriteError(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error {
	if patch.IsZero() {
		return r.LockUser(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("name", patch.Name)
	add("email", patch.Email)
	add("address", patch.Address)
	add("aadhaar_id", patch.AadhaarID)
	add("id_proof_url", patch.IDProofURL)
	args = append(args, id)

	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, newHash, id))
}

var _ store.Users = (*usersRepo)(nil)
