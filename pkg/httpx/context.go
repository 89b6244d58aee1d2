package httpx

import "context"

type ctxKey string

const CtxKeyUserID ctxKey = "user_id"

// WithUserID records the authenticated subject on ctx. Rate limiting by user
// reads it back.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromContext returns the subject stored by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}
