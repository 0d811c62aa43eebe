package auth

import (
	"context"

	"github.com/google/uuid"
)

// AdminContext identifies the authenticated admin for a request
type AdminContext struct {
	AdminID uuid.UUID
	Name    string
	Email   string
}

type contextKey string

const adminContextKey contextKey = "adminContext"

// WithAdminContext adds the admin identity to the context
func WithAdminContext(ctx context.Context, admin *AdminContext) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// WithAdminID is a shorthand for contexts that only need the owner id,
// such as background jobs acting on behalf of one admin.
func WithAdminID(ctx context.Context, adminID uuid.UUID) context.Context {
	return WithAdminContext(ctx, &AdminContext{AdminID: adminID})
}

// FromContext extracts the admin identity from the context
func FromContext(ctx context.Context) (*AdminContext, bool) {
	admin, ok := ctx.Value(adminContextKey).(*AdminContext)
	return admin, ok && admin != nil
}

// AdminIDFromContext returns the owning admin id, or false if the context
// carries no usable identity.
func AdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	admin, ok := FromContext(ctx)
	if !ok || admin.AdminID == uuid.Nil {
		return uuid.Nil, false
	}
	return admin.AdminID, true
}
