package service

import (
	"time"

	"github.com/aussiebroadwan/khpl/pkg/idx"
	"github.com/aussiebroadwan/khpl/pkg/jwtx"
)

// TokenService issues and resolves HS256 access tokens.
type TokenService struct {
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier
	issuer   string
	ttl      time.Duration

	// Now is used for issuing and verifying; nil means time.Now.
	Now func() time.Time
}

// NewTokenService returns a TokenService signing with secret. A ttl of zero
// or less uses jwtx.DefaultAccessTokenTTL.
func NewTokenService(secret []byte, issuer string, ttl time.Duration) (*TokenService, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwtx.NewVerifierHS256(secret, issuer)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	t := &TokenService{signer: signer, verifier: verifier, issuer: issuer, ttl: ttl}
	verifier.Now = t.now
	return t, nil
}

func (t *TokenService) now() time.Time {
	if t.Now != nil {
		return t.Now().UTC()
	}
	return time.Now().UTC()
}

// TTL reports the lifetime of issued tokens.
func (t *TokenService) TTL() time.Duration { return t.ttl }

// Issue signs a token for subject.
func (t *TokenService) Issue(subject string) (string, time.Time, error) {
	claims := jwtx.NewAccessClaims(subject, t.issuer, t.ttl, t.now())
	token, err := t.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, internalError(err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Resolve returns the subject of a valid token. Every verification failure,
// including a subject that is not a member ULID, is reported as
// ErrInvalidToken.
func (t *TokenService) Resolve(token string) (string, error) {
	claims, err := t.verifier.Verify(token)
	if err != nil {
		return "", &Error{Kind: KindUnauthorized, Message: ErrInvalidToken.Message, Err: err}
	}
	subject, err := idx.Parse(claims.Subject)
	if err != nil {
		return "", &Error{Kind: KindUnauthorized, Message: ErrInvalidToken.Message, Err: err}
	}
	return subject.String(), nil
}
