package store

import (
	"context"
	"sync/atomic"
)

// Handle is a Store whose backend can be replaced while requests are in
// flight. The application starts on Unavailable and swaps in the real
// driver once it connects.
type Handle struct {
	cur atomic.Pointer[backend]
}

type backend struct{ Store }

func NewHandle(initial Store) *Handle {
	h := &Handle{}
	h.Set(initial)
	return h
}

// Set replaces the backend and returns the previous one.
func (h *Handle) Set(s Store) Store {
	prev := h.cur.Swap(&backend{Store: s})
	if prev == nil {
		return nil
	}
	return prev.Store
}

// Current returns the active backend.
func (h *Handle) Current() Store { return h.cur.Load().Store }

func (h *Handle) Users() Users             { return h.Current().Users() }
func (h *Handle) Invitations() Invitations { return h.Current().Invitations() }
func (h *Handle) ApplyMigrations() error   { return h.Current().ApplyMigrations() }
func (h *Handle) Close() error             { return h.Current().Close() }

func (h *Handle) Tx(ctx context.Context) (Tx, error) { return h.Current().Tx(ctx) }
func (h *Handle) Ping(ctx context.Context) error     { return h.Current().Ping(ctx) }

func (h *Handle) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return h.Current().WithTx(ctx, fn)
}

var _ Store = (*Handle)(nil)
