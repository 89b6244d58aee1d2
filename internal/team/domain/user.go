package domain

import "time"

// MaxDirectChildren is the number of users that may share one parent.
const MaxDirectChildren = 2

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string // unique, used for login
	PasswordHash string // argon2id, or a legacy bcrypt/sha256 hash awaiting rehash
	Address      *string
	AadhaarID    *string
	IDProofURL   *string
	ParentID     *string // nil only for the owner
	InvitedBy    *string
	Level        int
	IsOwner      bool
	CreatedAt    time.Time
}

// UserPatch lists the mutable profile fields. Nil fields are left untouched.
// Parent and level are fixed at creation.
type UserPatch struct {
	Name       *string
	Email      *string
	Address    *string
	AadhaarID  *string
	IDProofURL *string
}

// IsZero reports whether the patch changes nothing.
func (p UserPatch) IsZero() bool {
	return p.Name == nil && p.Email == nil && p.Address == nil && p.AadhaarID == nil && p.IDProofURL == nil
}
