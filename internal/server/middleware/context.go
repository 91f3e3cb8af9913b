package middleware

import "context"

type contextKey struct{ name string }

var subjectIDKey = contextKey{"subject_id"}

// WithSubject returns a context with the authenticated subject id set.
// Handlers read it via GetSubject and pass it down as an explicit parameter;
// nothing below the handler layer touches the request context for identity.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectIDKey, subjectID)
}

// GetSubject returns the subject id from ctx and true if set; otherwise "", false.
func GetSubject(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectIDKey).(string)
	return v, ok
}
