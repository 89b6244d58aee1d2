package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cause := errors.New("no such host")
	s := Unavailable(cause)

	require.ErrorIs(t, s.Ping(ctx), cause)
	require.ErrorIs(t, s.ApplyMigrations(), cause)
	require.NoError(t, s.Close())

	_, err := s.Users().GetUserByPhone(ctx, "x")
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrNotFound)

	_, err = s.Invitations().DeleteAbandonedInvitations(ctx, time.Now())
	require.ErrorIs(t, err, cause)

	called := false
	err = s.WithTx(ctx, func(Tx) error { called = true; return nil })
	require.ErrorIs(t, err, cause)
	require.False(t, called)
}
