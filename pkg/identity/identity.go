package identity

import (
	"context"
)

// RoleSuperAdmin is the only role exempt from business-unit scoping.
const RoleSuperAdmin = "Super Admin"

// Caller is the resolved identity of the authenticated request: who is
// asking, what role they hold, and which business unit they belong to.
// BusinessUnitID is nil for callers not attached to any unit.
type Caller struct {
	UserID         string
	Role           string
	BusinessUnitID *int64
}

// IsSuperAdmin reports whether the caller holds the unrestricted role.
func (c Caller) IsSuperAdmin() bool {
	return c.Role == RoleSuperAdmin
}

type contextKey struct{}

// WithCaller stores the caller in the context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext retrieves the caller placed by the auth middleware.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok
}
