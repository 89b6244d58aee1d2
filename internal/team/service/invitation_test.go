package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/cryptox"
	"github.com/aussiebroadwan/khpl/pkg/idx"
)

type invitationFixture struct {
	st    store.Store
	clock *clock
	svc   *InvitationService
	owner domain.User
}

func newInvitationFixture(t *testing.T) invitationFixture {
	t.Helper()
	st := newTestStore(t)
	clk := newClock(epoch)
	tokens := newTokens(t)
	tokens.Now = clk.Now
	return invitationFixture{
		st:    st,
		clock: clk,
		owner: seedOwner(t, st),
		svc: &InvitationService{
			Store:   st,
			Tokens:  tokens,
			BaseURL: "https://khpl.example.com/",
			Now:     clk.Now,
		},
	}
}

func registration(phone string) Registration {
	return Registration{
		Name:      "New Member",
		Phone:     phone,
		Password:  "member-password",
		AadhaarID: "1234-5678-9012",
	}
}

func TestInvitationCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("receipt", func(t *testing.T) {
		f := newInvitationFixture(t)
		r, err := f.svc.Create(ctx, f.owner, "  Asha  ", "asha@example.com")
		require.NoError(t, err)
		require.Equal(t, "Asha", r.MemberName)
		require.Equal(t, "asha@example.com", r.Email)
		require.Equal(t, epoch.Add(domain.DefaultInvitationTTL), r.ExpiresAt)
		require.Equal(t, "https://khpl.example.com/register?token="+r.Token, r.InviteLink)

		inv, err := f.st.Invitations().GetPendingInvitationByTokenHash(ctx, cryptox.FingerprintToken(r.Token))
		require.NoError(t, err)
		require.Equal(t, f.owner.ID, inv.InvitedBy)
		require.NotEqual(t, r.Token, inv.TokenHash)
	})

	t.Run("placeholder email skips conflicts", func(t *testing.T) {
		f := newInvitationFixture(t)
		first, err := f.svc.Create(ctx, f.owner, "Ravi", "")
		require.NoError(t, err)
		second, err := f.svc.Create(ctx, f.owner, "Ravi", "")
		require.NoError(t, err)

		require.True(t, domain.IsPlaceholderEmail(first.Email))
		require.True(t, strings.HasPrefix(first.Email, "whatsapp-"))
		require.NotEqual(t, first.Email, second.Email)
		require.NotEqual(t, first.Token, second.Token)
	})

	t.Run("validation", func(t *testing.T) {
		f := newInvitationFixture(t)
		_, err := f.svc.Create(ctx, f.owner, "   ", "")
		require.Equal(t, KindValidation, KindOf(err))
		_, err = f.svc.Create(ctx, f.owner, "Asha", "not-an-email")
		require.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("conflicts", func(t *testing.T) {
		f := newInvitationFixture(t)
		_, err := f.svc.Create(ctx, f.owner, "Self", f.owner.Email)
		require.ErrorIs(t, err, ErrEmailTaken)

		_, err = f.svc.Create(ctx, f.owner, "Asha", "asha@example.com")
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, f.owner, "Asha", "asha@example.com")
		require.ErrorIs(t, err, ErrPendingInvitation)
		require.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("child limit", func(t *testing.T) {
		f := newInvitationFixture(t)
		addMember(t, f.st, f.owner)
		addMember(t, f.st, f.owner)
		_, err := f.svc.Create(ctx, f.owner, "Third", "")
		require.ErrorIs(t, err, ErrChildLimit)
		require.Equal(t, KindLimitExceeded, KindOf(err))
	})
}

func TestInvitationFetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Asha", "asha@example.com")
	require.NoError(t, err)

	view, err := f.svc.Fetch(ctx, r.Token)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", view.Email)
	require.Equal(t, "Asha", view.MemberName)
	require.Equal(t, f.owner.Name, view.InvitedByName)

	_, err = f.svc.Fetch(ctx, "unknown-token")
	require.ErrorIs(t, err, ErrInvitationNotFound)
	_, err = f.svc.Fetch(ctx, "")
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

// An invitation created at T with a 7 day window, fetched at T+8d, reports
// Expired once and is gone afterwards.
func TestInvitationFetch_ExpiresOnObservation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Asha", "")
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	_, err = f.svc.Fetch(ctx, r.Token)
	require.ErrorIs(t, err, ErrInvitationExpired)
	require.Equal(t, KindExpired, KindOf(err))

	_, err = f.svc.Fetch(ctx, r.Token)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationRedeem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Asha", "asha@example.com")
	require.NoError(t, err)

	reg := registration("+91-1111111111")
	reg.Address = "12 MG Road"
	sess, err := f.svc.Redeem(ctx, r.Token, reg)
	require.NoError(t, err)

	u := sess.User
	require.Equal(t, f.owner.Level+1, u.Level)
	require.Equal(t, f.owner.ID, *u.ParentID)
	require.Equal(t, f.owner.ID, *u.InvitedBy)
	require.Equal(t, "asha@example.com", u.Email)
	require.Equal(t, "12 MG Road", *u.Address)
	require.False(t, u.IsOwner)
	require.True(t, cryptox.CheckPassword("member-password", u.PasswordHash))

	subject, err := f.svc.Tokens.Resolve(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, subject)

	stored, err := f.st.Users().GetUserByPhone(ctx, reg.Phone)
	require.NoError(t, err)
	require.Equal(t, u.ID, stored.ID)

	t.Run("second redemption", func(t *testing.T) {
		_, err := f.svc.Redeem(ctx, r.Token, registration("+91-2222222222"))
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("phone already registered", func(t *testing.T) {
		other, err := f.svc.Create(ctx, f.owner, "Dup", "")
		require.NoError(t, err)
		_, err = f.svc.Redeem(ctx, other.Token, registration(reg.Phone))
		require.ErrorIs(t, err, ErrPhoneTaken)

		// The invitation stays usable with another phone.
		_, err = f.svc.Fetch(ctx, other.Token)
		require.NoError(t, err)
	})
}

func TestInvitationRedeem_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Asha", "")
	require.NoError(t, err)

	tests := map[string]func(*Registration){
		"blank name":     func(r *Registration) { r.Name = " " },
		"blank phone":    func(r *Registration) { r.Phone = "" },
		"blank password": func(r *Registration) { r.Password = "" },
		"blank aadhaar":  func(r *Registration) { r.AadhaarID = "" },
		"bad email":      func(r *Registration) { r.Email = "nope" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			reg := registration("+91-3333333333")
			mutate(&reg)
			_, err := f.svc.Redeem(ctx, r.Token, reg)
			require.Equal(t, KindValidation, KindOf(err))
		})
	}

	// Nothing was consumed by the rejected attempts.
	_, err = f.svc.Fetch(ctx, r.Token)
	require.NoError(t, err)
}

func TestInvitationRedeem_Expired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Asha", "")
	require.NoError(t, err)
	f.clock.Advance(domain.DefaultInvitationTTL + time.Second)

	_, err = f.svc.Redeem(ctx, r.Token, registration("+91-4444444444"))
	require.ErrorIs(t, err, ErrInvitationExpired)
	_, err = f.svc.Redeem(ctx, r.Token, registration("+91-4444444444"))
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationRedeem_InviterVanished(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NoError(t, f.st.Invitations().CreateInvitation(ctx, domain.Invitation{
		ID:         idx.New().String(),
		Email:      "orphan@example.com",
		MemberName: "Orphan",
		InvitedBy:  "01J00000000000000000000000",
		TokenHash:  cryptox.FingerprintToken(token),
		Status:     domain.InvitationPending,
		CreatedAt:  epoch,
		ExpiresAt:  epoch.Add(time.Hour),
	}))

	view, err := f.svc.Fetch(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "Unknown", view.InvitedByName)

	_, err = f.svc.Redeem(ctx, token, registration("+91-5555555555"))
	require.ErrorIs(t, err, ErrInvalidInviter)
	require.Equal(t, KindNotFound, KindOf(err))
}

// Invitations only check the cap when they are created, so a parent can hold
// more outstanding invitations than free slots. The cap is enforced again at
// registration time.
func TestInvitationRedeem_ChildLimitAtCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	var tokens []string
	for range 3 {
		r, err := f.svc.Create(ctx, f.owner, "Member", "")
		require.NoError(t, err)
		tokens = append(tokens, r.Token)
	}

	_, err := f.svc.Redeem(ctx, tokens[0], registration("+91-6000000001"))
	require.NoError(t, err)
	_, err = f.svc.Redeem(ctx, tokens[1], registration("+91-6000000002"))
	require.NoError(t, err)
	_, err = f.svc.Redeem(ctx, tokens[2], registration("+91-6000000003"))
	require.ErrorIs(t, err, ErrChildLimit)

	n, err := f.st.Users().CountChildren(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MaxDirectChildren, n)

	// The rejected invitation is still pending.
	_, err = f.svc.Fetch(ctx, tokens[2])
	require.NoError(t, err)
}

func TestInvitationRedeem_ConcurrentLastSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)
	addMember(t, f.st, f.owner)

	a, err := f.svc.Create(ctx, f.owner, "A", "")
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, f.owner, "B", "")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, tok := range []string{a.Token, b.Token} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.Redeem(ctx, tok, registration(fmt.Sprintf("+91-70000000%02d", i)))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrChildLimit)
	}
	require.Equal(t, 1, succeeded)

	n, err := f.st.Users().CountChildren(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MaxDirectChildren, n)
}

func TestInvitationRedeem_ConcurrentSameToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Asha", "")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 3)
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.Redeem(ctx, r.Token, registration(fmt.Sprintf("+91-80000000%02d", i)))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrInvitationNotFound)
	}
	require.Equal(t, 1, succeeded)
}

func TestInvitationRedeem_InvalidatesAncestorCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	cache := newMemCache()
	f.svc.Team = &TeamService{Store: f.st, Cache: cache}

	mid := addMember(t, f.st, f.owner)
	cache.entries[f.owner.ID] = 1
	cache.entries[mid.ID] = 0

	r, err := f.svc.Create(ctx, mid, "Leaf", "")
	require.NoError(t, err)
	_, err = f.svc.Redeem(ctx, r.Token, registration("+91-9000000001"))
	require.NoError(t, err)

	require.ElementsMatch(t, []string{mid.ID, f.owner.ID}, cache.forgot)
	require.Empty(t, cache.entries)

	total, err := f.svc.Team.CountDescendants(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestInvitationRedeem_LoginWithSamePaddedPhone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvitationFixture(t)

	r, err := f.svc.Create(ctx, f.owner, "Padded", "")
	require.NoError(t, err)
	reg := registration(" +1-555-0100 ")
	sess, err := f.svc.Redeem(ctx, r.Token, reg)
	require.NoError(t, err)
	require.Equal(t, "+1-555-0100", sess.User.Phone)

	auth := &AuthService{Store: f.st, Tokens: f.svc.Tokens}
	got, err := auth.Login(ctx, " +1-555-0100 ", reg.Password)
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, got.User.ID)
}
