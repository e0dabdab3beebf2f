// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyPrincipal ctxKey = "principal"

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithPrincipal annotates context with the transport-authenticated caller
// identity. Authorization decisions read this, never the request payload.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	if principal != "" {
		ctx = context.WithValue(ctx, keyPrincipal, principal)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// Principal returns the authenticated caller identity if present
func Principal(ctx context.Context) string {
	if v, ok := ctx.Value(keyPrincipal).(string); ok {
		return v
	}
	return ""
}
