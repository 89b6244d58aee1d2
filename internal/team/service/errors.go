package service

import (
	"errors"

	"github.com/aussiebroadwan/khpl/internal/team/store"
)

// Kind classifies a failure so transports can map it without inspecting
// individual sentinels.
type Kind string

const (
	KindUnauthorized  Kind = "unauthorized"
	KindNotFound      Kind = "not_found"
	KindExpired       Kind = "expired"
	KindConflict      Kind = "conflict"
	KindLimitExceeded Kind = "limit_exceeded"
	KindValidation    Kind = "validation_error"
	KindInternal      Kind = "internal"
)

// Error is a classified service failure. Message is safe to show to clients;
// Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another Error with the same kind and message, so copies of a
// sentinel carrying a cause still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid phone or password"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "Could not validate credentials"}

	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrInvitationNotFound = &Error{Kind: KindNotFound, Message: "Invalid or expired invitation"}
	ErrInvalidInviter     = &Error{Kind: KindNotFound, Message: "Invalid invitation - inviter not found"}
	ErrInvitationExpired  = &Error{Kind: KindExpired, Message: "Invitation has expired"}

	ErrPhoneTaken        = &Error{Kind: KindConflict, Message: "User with this phone number already registered"}
	ErrEmailTaken        = &Error{Kind: KindConflict, Message: "User with this email already exists"}
	ErrPendingInvitation = &Error{Kind: KindConflict, Message: "Invitation already sent to this email"}

	ErrChildLimit = &Error{Kind: KindLimitExceeded, Message: "You can only have a maximum of 2 direct team members"}
)

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// internalError hides store and crypto failures behind a generic message.
func internalError(err error) error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf classifies err. Unclassified errors are internal; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Kind != KindInternal {
		return se.Message
	}
	return "An internal error occurred"
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

// outcome labels err for metrics.
func outcome(err error) string {
	switch KindOf(err) {
	case "":
		return "success"
	case KindInternal:
		return "error"
	default:
		return "rejected"
	}
}
