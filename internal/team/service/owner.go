package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/cryptox"
	"github.com/aussiebroadwan/khpl/pkg/idx"
)

// OwnerSeed describes the root account created on first start.
type OwnerSeed struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type OwnerService struct {
	Store  store.Store
	Logger *slog.Logger
	Now    func() time.Time

	// Secrets receives a generated owner password, once. It defaults to
	// os.Stderr and is kept apart from Logger so the password never enters
	// the log pipeline.
	Secrets io.Writer
}

// EnsureOwner creates the owner described by seed unless one already
// exists. It reports whether an account was created. An empty password is
// replaced by a generated one, written to Secrets so the operator can sign
// in.
func (s *OwnerService) EnsureOwner(ctx context.Context, seed OwnerSeed) (bool, error) {
	existing, err := s.Store.Users().GetOwner(ctx)
	if err == nil {
		s.Logger.Debug("owner already present", slog.String("user_id", existing.ID))
		return false, nil
	}
	if !isNotFound(err) {
		return false, internalError(err)
	}

	seed.Phone = strings.TrimSpace(seed.Phone)
	if seed.Phone == "" {
		s.Logger.Warn("no owner configured and none present; set OWNER_PHONE to seed one")
		return false, nil
	}

	generated := false
	if seed.Password == "" {
		pw, err := cryptox.GeneratePassword()
		if err != nil {
			return false, internalError(err)
		}
		seed.Password = pw
		generated = true
	}

	hash, err := cryptox.HashPassword(seed.Password)
	if err != nil {
		return false, internalError(err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	owner := domain.User{
		ID:           idx.NewAt(now).String(),
		Name:         seed.Name,
		Email:        seed.Email,
		Phone:        seed.Phone,
		PasswordHash: hash,
		Level:        0,
		IsOwner:      true,
		CreatedAt:    now,
	}

	// A concurrent start may have won the race; the single-owner index
	// rejects the second insert.
	if err := s.Store.Users().CreateUser(ctx, owner); err != nil {
		return false, internalError(err)
	}

	s.Logger.Info("owner account created",
		slog.String("user_id", owner.ID),
		slog.String("phone", owner.Phone),
	)
	if generated {
		out := s.Secrets
		if out == nil {
			out = os.Stderr
		}
		if _, err := fmt.Fprintf(out, "khpl: generated owner password for %s: %s\n", owner.Phone, seed.Password); err != nil {
			s.Logger.Error("failed to write generated owner password", slog.Any("error", err))
		}
		s.Logger.Warn("generated owner password written to stderr; change it after first login",
			slog.String("user_id", owner.ID),
		)
	}
	return true, nil
}
