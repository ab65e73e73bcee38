package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	sessionIDKey contextKey = "session_id"
	batchKey     contextKey = "batch"
	passKey      contextKey = "pass"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSessionID annotates context with the session being processed.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBatch annotates context with the batch index within a session.
func WithBatch(ctx context.Context, batch int) context.Context {
	return context.WithValue(ctx, batchKey, batch)
}

// BatchFromContext extracts the batch index if present.
func BatchFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(batchKey).(int); ok {
		return v, true
	}
	return 0, false
}

// WithPass annotates context with the extraction pass number.
func WithPass(ctx context.Context, pass int) context.Context {
	return context.WithValue(ctx, passKey, pass)
}

// PassFromContext extracts the extraction pass number if present.
func PassFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(passKey).(int); ok {
		return v, true
	}
	return 0, false
}
