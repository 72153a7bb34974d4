package auth

import "context"

type ctxKey int

const (
	subjectKey ctxKey = iota
	nameKey
)

func WithIdentity(ctx context.Context, subject, name string) context.Context {
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, nameKey, name)
}

// SubjectFromContext returns the authenticated user id, or "".
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// NameFromContext returns the authenticated user's display name, or "".
func NameFromContext(ctx context.Context) string {
	s, _ := ctx.Value(nameKey).(string)
	return s
}
