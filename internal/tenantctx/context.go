// Package tenantctx carries the caller's tenant scope through the request
// context.
package tenantctx

import (
	"context"
	"strings"
)

type contextKey struct{}

// WithCode stores the tenant code in the context.
func WithCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, contextKey{}, strings.TrimSpace(code))
}

// Code returns the tenant code from context, if set.
func Code(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	code, ok := ctx.Value(contextKey{}).(string)
	if !ok || code == "" {
		return "", false
	}
	return code, true
}
