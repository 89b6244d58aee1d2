package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/metrics"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/cryptox"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

// Session is an access token together with the user it was issued to.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Login verifies phone and password and issues an access token. Unknown
// phones and wrong passwords are indistinguishable to the caller. The phone
// is trimmed the same way registration stores it.
func (s *AuthService) Login(ctx context.Context, phone, password string) (_ Session, err error) {
	defer func() { metrics.ObserveLogin(outcome(err)) }()
	log := slogx.FromContext(ctx)

	phone = strings.TrimSpace(phone)

	if phone == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login rejected", slog.String("reason", "unknown phone"))
			return Session{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return Session{}, internalError(err)
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		log.Warn("login rejected",
			slog.String("reason", "bad password"),
			slog.String("user_id", user.ID),
		)
		return Session{}, ErrInvalidCredentials
	}

	if cryptox.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, &user, password)
	}

	token, expiresAt, err := s.Tokens.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue access token", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("login succeeded", slog.String("user_id", user.ID))
	return Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// rehash upgrades a legacy stored hash. Failures only cost the upgrade.
func (s *AuthService) rehash(ctx context.Context, user *domain.User, password string) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to rehash password", slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		log.Error("failed to store rehashed password", slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}

	log.Info("password hash upgraded",
		slog.String("user_id", user.ID),
		slog.String("from", cryptox.Scheme(user.PasswordHash)),
	)
	user.PasswordHash = hash
}

// Authenticate resolves a bearer token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	subject, err := s.Tokens.Resolve(token)
	if err != nil {
		log.Debug("token rejected", slog.Any("error", err))
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("token rejected",
				slog.String("reason", "subject no longer exists"),
				slog.String("user_id", subject),
			)
			return domain.User{}, ErrInvalidToken
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, internalError(err)
	}
	return user, nil
}
