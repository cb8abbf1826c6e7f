package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's id.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeySessionID carries the resolved session's id.
	CtxKeySessionID ctxKey = "session_id"
	// CtxKeySuperadmin marks the authenticated user as a superadmin.
	CtxKeySuperadmin ctxKey = "superadmin"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok
}

// IsSuperadmin reports whether the authenticated user is a superadmin.
func IsSuperadmin(ctx context.Context) bool {
	v, ok := ctx.Value(CtxKeySuperadmin).(bool)
	return ok && v
}
