package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/metrics"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/cryptox"
	"github.com/aussiebroadwan/khpl/pkg/idx"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

// Receipt is handed back to the inviter for sharing.
type Receipt struct {
	Token      string
	InviteLink string
	MemberName string
	Email      string
	ExpiresAt  time.Time
}

// InvitationView is what a prospective member sees before registering.
type InvitationView struct {
	Email         string
	MemberName    string
	InvitedByName string
	ExpiresAt     time.Time
}

// Registration carries the details submitted with an invitation token.
type Registration struct {
	Name      string
	Phone     string
	Password  string
	AadhaarID string
	Email     string
	Address   string
}

type InvitationService struct {
	Store  store.Store
	Tokens *TokenService

	// Team, when set, has its downline cache invalidated after registrations.
	Team *TeamService

	// BaseURL prefixes invite links. Empty yields relative links.
	BaseURL string
	TTL     time.Duration
	Now     func() time.Time
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.DefaultInvitationTTL
}

func (s *InvitationService) inviteLink(token string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/register?token=" + url.QueryEscape(token)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Create issues an invitation from inviter. An empty email produces a
// placeholder address for invitations shared over messaging apps.
func (s *InvitationService) Create(ctx context.Context, inviter domain.User, name, email string) (_ Receipt, err error) {
	defer func() { metrics.ObserveInvitation("create", outcome(err)) }()
	log := slogx.FromContext(ctx).With(slog.String("inviter_id", inviter.ID))

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return Receipt{}, validationError("name is required")
	}
	if email != "" && !validEmail(email) {
		return Receipt{}, validationError("email is not a valid address")
	}

	if email == "" {
		suffix, err := cryptox.GenerateToken(cryptox.TokenSize64)
		if err != nil {
			log.Error("failed to generate placeholder email", slog.Any("error", err))
			return Receipt{}, internalError(err)
		}
		email = domain.PlaceholderEmailPrefix + suffix + domain.PlaceholderEmailDomain
	}

	if !domain.IsPlaceholderEmail(email) {
		if err := s.checkEmailFree(ctx, email); err != nil {
			log.Warn("invitation rejected", slog.String("reason", MessageOf(err)))
			return Receipt{}, err
		}
	}

	children, err := s.Store.Users().CountChildren(ctx, inviter.ID)
	if err != nil {
		log.Error("failed to count children", slog.Any("error", err))
		return Receipt{}, internalError(err)
	}
	if children >= domain.MaxDirectChildren {
		log.Warn("invitation rejected", slog.String("reason", "child limit reached"))
		return Receipt{}, ErrChildLimit
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return Receipt{}, internalError(err)
	}

	now := s.now()
	inv := domain.Invitation{
		ID:         idx.NewAt(now).String(),
		Email:      email,
		MemberName: name,
		InvitedBy:  inviter.ID,
		TokenHash:  cryptox.FingerprintToken(token),
		Status:     domain.InvitationPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl()),
	}
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return Receipt{}, internalError(err)
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.Bool("placeholder_email", domain.IsPlaceholderEmail(email)),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	return Receipt{
		Token:      token,
		InviteLink: s.inviteLink(token),
		MemberName: name,
		Email:      email,
		ExpiresAt:  inv.ExpiresAt,
	}, nil
}

func (s *InvitationService) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return internalError(err)
	}

	pending, err := s.Store.Invitations().HasPendingInvitationForEmail(ctx, email)
	if err != nil {
		return internalError(err)
	}
	if pending {
		return ErrPendingInvitation
	}
	return nil
}

// pending looks up a pending invitation by raw token. An invitation found
// past its expiry is flipped to expired before ErrInvitationExpired is
// returned.
func (s *InvitationService) pending(ctx context.Context, token string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.Invitation{}, ErrInvitationNotFound
	}

	inv, err := s.Store.Invitations().GetPendingInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation lookup failed", slog.String("reason", "no pending invitation for token"))
			return domain.Invitation{}, ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.Invitation{}, internalError(err)
	}

	if inv.ExpiredAt(s.now()) {
		err := s.Store.Invitations().MarkInvitationExpired(ctx, inv.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to expire invitation", slog.String("invitation_id", inv.ID), slog.Any("error", err))
			return domain.Invitation{}, internalError(err)
		}
		log.Info("invitation expired", slog.String("invitation_id", inv.ID))
		return domain.Invitation{}, ErrInvitationExpired
	}

	return inv, nil
}

// Fetch returns the public view of a pending invitation. Note that it may
// write: an expired invitation is transitioned on first observation.
func (s *InvitationService) Fetch(ctx context.Context, token string) (_ InvitationView, err error) {
	defer func() { metrics.ObserveInvitation("fetch", outcome(err)) }()
	inv, err := s.pending(ctx, token)
	if err != nil {
		return InvitationView{}, err
	}

	view := InvitationView{
		Email:      inv.Email,
		MemberName: inv.MemberName,
		ExpiresAt:  inv.ExpiresAt,
	}
	inviter, err := s.Store.Users().GetUserByID(ctx, inv.InvitedBy)
	switch {
	case err == nil:
		view.InvitedByName = inviter.Name
	case errors.Is(err, store.ErrNotFound):
		view.InvitedByName = "Unknown"
	default:
		slogx.FromContext(ctx).Error("failed to fetch inviter", slog.Any("error", err))
		return InvitationView{}, internalError(err)
	}
	return view, nil
}

func (r *Registration) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.AadhaarID = strings.TrimSpace(r.AadhaarID)
	r.Email = strings.TrimSpace(r.Email)
	r.Address = strings.TrimSpace(r.Address)

	switch {
	case r.Name == "":
		return validationError("name is required")
	case r.Phone == "":
		return validationError("phone is required")
	case r.Password == "":
		return validationError("password is required")
	case r.AadhaarID == "":
		return validationError("aadhaar_id is required")
	case r.Email != "" && !validEmail(r.Email):
		return validationError("email is not a valid address")
	}
	return nil
}

// Redeem registers a new member under the inviter of token and signs them
// in. The membership check, insert and invitation transition commit
// together, so an invitation is accepted at most once and no parent ends up
// with more than domain.MaxDirectChildren children.
func (s *InvitationService) Redeem(ctx context.Context, token string, reg Registration) (_ Session, err error) {
	defer func() { metrics.ObserveInvitation("redeem", outcome(err)) }()
	log := slogx.FromContext(ctx)

	if err := reg.normalize(); err != nil {
		return Session{}, err
	}

	inv, err := s.pending(ctx, token)
	if err != nil {
		return Session{}, err
	}
	log = log.With(slog.String("invitation_id", inv.ID), slog.String("inviter_id", inv.InvitedBy))

	_, err = s.Store.Users().GetUserByPhone(ctx, reg.Phone)
	switch {
	case err == nil:
		log.Warn("registration rejected", slog.String("reason", "phone already registered"))
		return Session{}, ErrPhoneTaken
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to check phone", slog.Any("error", err))
		return Session{}, internalError(err)
	}

	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return Session{}, internalError(err)
	}

	now := s.now()
	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().LockUser(ctx, inv.InvitedBy); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidInviter
			}
			return internalError(err)
		}

		parent, err := tx.Users().GetUserByID(ctx, inv.InvitedBy)
		if err != nil {
			return internalError(err)
		}

		n, err := tx.Users().CountChildren(ctx, parent.ID)
		if err != nil {
			return internalError(err)
		}
		if n >= domain.MaxDirectChildren {
			return ErrChildLimit
		}

		user = domain.User{
			ID:           idx.NewAt(now).String(),
			Name:         reg.Name,
			Email:        inv.Email,
			Phone:        reg.Phone,
			PasswordHash: hash,
			AadhaarID:    &reg.AadhaarID,
			ParentID:     &parent.ID,
			InvitedBy:    &parent.ID,
			Level:        parent.Level + 1,
			CreatedAt:    now,
		}
		if reg.Email != "" {
			user.Email = reg.Email
		}
		if reg.Address != "" {
			user.Address = &reg.Address
		}

		switch err := tx.Users().CreateUser(ctx, user); {
		case errors.Is(err, store.ErrAlreadyExists):
			return ErrPhoneTaken
		case errors.Is(err, store.ErrChildLimit):
			return ErrChildLimit
		case err != nil:
			return internalError(err)
		}

		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return internalError(err)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			log.Error("registration failed", slog.Any("error", err))
		} else {
			log.Warn("registration rejected", slog.String("reason", MessageOf(err)))
		}
		return Session{}, err
	}

	if s.Team != nil {
		s.Team.InvalidateAncestors(ctx, user)
	}

	access, expiresAt, err := s.Tokens.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue access token", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("member registered",
		slog.String("user_id", user.ID),
		slog.Int("level", user.Level),
	)
	return Session{AccessToken: access, ExpiresAt: expiresAt, User: user}, nil
}
