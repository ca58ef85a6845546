package auth

import (
	"context"
	"strings"
)

type ctxKey string

const (
	usernameKey ctxKey = "auth_username"
	roleKey     ctxKey = "auth_role"
)

// ContextWithUser stores the verified identity in the context.
func ContextWithUser(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, usernameKey, strings.TrimSpace(username))
	if role = strings.TrimSpace(role); role != "" {
		ctx = context.WithValue(ctx, roleKey, role)
	}
	return ctx
}

// UsernameFromContext extracts the authenticated username from context.
func UsernameFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(usernameKey).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// RoleFromContext returns the role stored in context.
func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(roleKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// HasRole checks whether the context carries the given role.
func HasRole(ctx context.Context, role string) bool {
	have, ok := RoleFromContext(ctx)
	if !ok {
		return false
	}
	return strings.EqualFold(have, role)
}
