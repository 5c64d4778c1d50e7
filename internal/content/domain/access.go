package domain

import "context"

// Role is the caller class the store authorises against.
type Role string

const (
	RolePublic Role = "public"
	RoleAdmin  Role = "admin"
)

// Op is a store operation class.
type Op string

const (
	OpRead   Op = "read"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Authorize enforces the row-level policy: admins may do everything, public
// callers may read published content and insert inquiries only.
func Authorize(role Role, table Table, op Op) error {
	if role == RoleAdmin {
		return nil
	}
	if role != RolePublic {
		return ErrForbidden
	}
	switch {
	case table == TableInquiries && op == OpInsert:
		return nil
	case table == TableInquiries:
		return ErrForbidden
	case op == OpRead:
		return nil
	}
	return ErrForbidden
}

type roleKey struct{}

// WithRole stores the caller role in ctx.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFrom returns the caller role, defaulting to public.
func RoleFrom(ctx context.Context) Role {
	if r, ok := ctx.Value(roleKey{}).(Role); ok && r != "" {
		return r
	}
	return RolePublic
}
