// Package auth defines the authenticated principal and the capability
// checks used by the service layer. Authorisation decisions live here
// rather than as scattered role conditionals.
package auth

import (
	"context"

	"github.com/google/uuid"

	"laundry-pos/internal/model"
)

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID   uuid.UUID
	Role model.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == model.RoleAdmin
}

// Action is a named operation subject to a capability check.
type Action string

const (
	ActionListAllOrders        Action = "orders.list_all"
	ActionUpdateOrder          Action = "orders.update"
	ActionDeleteOrder          Action = "orders.delete"
	ActionViewStatistics       Action = "orders.statistics"
	ActionViewEmployeeOverview Action = "orders.employee_overview"
	ActionViewAnalytics        Action = "analytics.view"
)

// Can reports whether the principal may perform the action. All the
// named actions are admin-only; employees act only on their own orders
// through the ownership check below.
func Can(p *Principal, action Action) bool {
	if p == nil {
		return false
	}
	switch action {
	case ActionListAllOrders,
		ActionUpdateOrder,
		ActionDeleteOrder,
		ActionViewStatistics,
		ActionViewEmployeeOverview,
		ActionViewAnalytics:
		return p.IsAdmin()
	}
	return false
}

// CanViewOrder reports whether the principal may read an order owned
// by ownerID: admins see everything, employees only their own.
func CanViewOrder(p *Principal, ownerID uuid.UUID) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == ownerID
}

type contextKey struct{}

// WithPrincipal returns a context carrying the principal. Set once by
// the authentication middleware; everything below the handler boundary
// receives the principal as an explicit parameter.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext extracts the principal set by the middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil
}
