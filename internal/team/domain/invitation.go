package domain

import (
	"strings"
	"time"
)

// DefaultInvitationTTL is how long an invitation stays redeemable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// PlaceholderEmailPrefix marks emails synthesized for invitations shared over
// a messaging channel instead of email.
const (
	PlaceholderEmailPrefix = "whatsapp-"
	PlaceholderEmailDomain = "@example.com"
)

type Invitation struct {
	ID         string
	Email      string
	MemberName string
	InvitedBy  string
	TokenHash  string // fingerprint of the opaque token
	Status     InvitationStatus
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// ExpiredAt reports whether the invitation is past its expiry at now.
func (i Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsPlaceholderEmail reports whether email was synthesized for a channel-only
// invitation.
func IsPlaceholderEmail(email string) bool {
	return strings.HasPrefix(email, PlaceholderEmailPrefix) && strings.HasSuffix(email, PlaceholderEmailDomain)
}
