package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/khpl/pkg/jwtx"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newPair(t *testing.T) (*jwtx.HS256Signer, *jwtx.HS256Verifier) {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, "khpl")
	require.NoError(t, err)
	return signer, verifier
}

func TestHS256SignAndVerify(t *testing.T) {
	signer, verifier := newPair(t)
	require.Equal(t, "HS256", signer.Alg())

	token, err := signer.Sign(jwtx.NewAccessClaims("user-42", "khpl", 5*time.Minute, time.Now()))
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-42", claims.Subject)
}

func TestHS256Verify_Rejects(t *testing.T) {
	signer, verifier := newPair(t)
	now := time.Now()

	otherSigner, err := jwtx.NewSignerHS256([]byte(strings.Repeat("z", 32)))
	require.NoError(t, err)

	valid, err := signer.Sign(jwtx.NewAccessClaims("user-42", "khpl", time.Minute, now))
	require.NoError(t, err)

	forged, err := otherSigner.Sign(jwtx.NewAccessClaims("user-42", "khpl", time.Minute, now))
	require.NoError(t, err)

	expired, err := signer.Sign(jwtx.NewAccessClaims("user-42", "khpl", time.Minute, now.Add(-time.Hour)))
	require.NoError(t, err)

	wrongIssuer, err := signer.Sign(jwtx.NewAccessClaims("user-42", "someone-else", time.Minute, now))
	require.NoError(t, err)

	noSubject, err := signer.Sign(jwtx.NewAccessClaims("", "khpl", time.Minute, now))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewAccessClaims("user-42", "khpl", time.Minute, now)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"wrong secret", forged, jwtx.ErrInvalidSig},
		{"expired", expired, jwtx.ErrExpired},
		{"issuer mismatch", wrongIssuer, jwtx.ErrIssuer},
		{"missing subject", noSubject, jwtx.ErrInvalidClaim},
		{"garbage", "not-a-jwt", jwtx.ErrMalformed},
		{"empty", "", jwtx.ErrMalformed},
		{"tampered payload", tampered, nil},
		{"alg none", unsigned, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHS256Verify_InjectedClock(t *testing.T) {
	signer, verifier := newPair(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token, err := signer.Sign(jwtx.NewAccessClaims("user-42", "khpl", 30*time.Minute, issued))
	require.NoError(t, err)

	verifier.Now = func() time.Time { return issued.Add(29 * time.Minute) }
	_, err = verifier.Verify(token)
	require.NoError(t, err)

	verifier.Now = func() time.Time { return issued.Add(31 * time.Minute) }
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestHS256_WeakSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256(nil, "")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}
