package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by VerifyPassword when the password does not
// match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// Hash schemes recognised by VerifyPassword.
const (
	SchemeArgon2id = "argon2id"
	SchemeBcrypt   = "bcrypt"
	SchemeSHA256   = "sha256" // unsalted hex digest of the plain password
	SchemeUnknown  = "unknown"
)

// HashPassword generates a PHC-format Argon2id hash string including salt and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Scheme reports which algorithm produced encodedHash.
func Scheme(encodedHash string) string {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return SchemeArgon2id
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return SchemeBcrypt
	case isLegacyDigest(encodedHash):
		return SchemeSHA256
	default:
		return SchemeUnknown
	}
}

// NeedsRehash reports whether encodedHash should be replaced with a fresh
// Argon2id hash after a successful verification.
func NeedsRehash(encodedHash string) bool {
	return Scheme(encodedHash) != SchemeArgon2id
}

// CheckPassword reports whether password matches encodedHash under any
// supported scheme. Malformed hashes never match.
func CheckPassword(password, encodedHash string) bool {
	return VerifyPassword(password, encodedHash) == nil
}

// VerifyPassword compares a plaintext password against a stored hash. Argon2id
// is the current scheme; bcrypt and unsalted SHA-256 hex digests are accepted
// for accounts created before the migration.
func VerifyPassword(password, encodedHash string) error {
	switch Scheme(encodedHash) {
	case SchemeArgon2id:
		return verifyArgon2id(password, encodedHash)
	case SchemeBcrypt:
		if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrPasswordMismatch
			}
			return fmt.Errorf("invalid hash format: %w", err)
		}
		return nil
	case SchemeSHA256:
		if subtle.ConstantTimeCompare([]byte(LegacyDigest(password)), []byte(encodedHash)) == 1 {
			return nil
		}
		return ErrPasswordMismatch
	default:
		return errors.New("invalid hash format: unknown scheme")
	}
}

// LegacyDigest returns the unsalted SHA-256 hex digest used by the first
// generation of accounts.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// isLegacyDigest matches exactly 64 lowercase hex characters, the shape
// hex.EncodeToString produces.
func isLegacyDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func verifyArgon2id(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[2] != "v=19" {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}
	if mem == 0 || iters == 0 || par == 0 || mem > maxMemory || iters > maxIterations {
		return errors.New("invalid hash format: parameters out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}
	if len(expectedHash) == 0 {
		return errors.New("invalid hash format: empty hash")
	}

	computed := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expectedHash)), // #nosec G115 - bounded by decoded hash length
	)

	if subtle.ConstantTimeCompare(computed, expectedHash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// GeneratePassword returns a random 12 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
