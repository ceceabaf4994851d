package middleware

import (
	"context"
)

// ContextKey is a type for request context keys.
type ContextKey string

const (
	// CorrelationIDKey is the context key for the correlation ID.
	CorrelationIDKey ContextKey = "correlation_id"
	// LanguageKey is the context key for the request language.
	LanguageKey ContextKey = "language"
)

// WithCorrelationID returns a copy of ctx carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// GetCorrelationID gets the correlation ID from context.
func GetCorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return v
	}
	return ""
}

// WithLanguage returns a copy of ctx carrying lang.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, LanguageKey, lang)
}

// GetLanguage gets the request language from context, or "" when the
// Locale middleware did not run.
func GetLanguage(ctx context.Context) string {
	if v, ok := ctx.Value(LanguageKey).(string); ok {
		return v
	}
	return ""
}
