// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyUserID ctxKey = "user_id"
	keySource ctxKey = "source"
)

// WithRequest stores the request id where chimw.GetReqID finds it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithUser annotates context with the authenticated user id
func WithUser(ctx context.Context, userID string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, keyUserID, userID)
	}
	return ctx
}

// WithSource tags the surface a call came through: api, cli or mcp
func WithSource(ctx context.Context, source string) context.Context {
	if source != "" {
		ctx = context.WithValue(ctx, keySource, source)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// UserID returns the user id on the context if present
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(keyUserID).(string); ok {
		return v
	}
	return ""
}

// Source returns the calling surface or "" when unset
func Source(ctx context.Context) string {
	if v, ok := ctx.Value(keySource).(string); ok {
		return v
	}
	return ""
}
