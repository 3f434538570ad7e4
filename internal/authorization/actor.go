package authorization

import (
	"context"
	"strings"
)

const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"

	// RoleSystem marks writes made by the CLI rather than an HTTP caller.
	RoleSystem = "system"
)

type actorKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, actorKey{}, strings.ToLower(strings.TrimSpace(role)))
}

// RoleFromContext falls back to viewer when no role was attached.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(actorKey{}).(string); ok && role != "" {
		return role
	}
	return RoleViewer
}
