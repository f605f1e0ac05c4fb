package service

import (
	"context"

	"laundry-pos/internal/auth"
	"laundry-pos/internal/model"

	"github.com/google/uuid"
)

// OrderService defines operations for order management. Every
// operation takes the acting principal explicitly; there is no ambient
// current-user state below the middleware boundary.
type OrderService interface {
	// Create validates the request, computes the derived fields and
	// persists a new order owned by the principal.
	Create(ctx context.Context, p *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error)

	// List retrieves orders visible to the principal, newest first,
	// optionally filtered by creation date.
	List(ctx context.Context, p *auth.Principal, query model.OrderListQuery) ([]model.Order, error)

	// Get retrieves a single order the principal may view.
	Get(ctx context.Context, p *auth.Principal, id uuid.UUID) (*model.Order, error)

	// Update applies a partial update. Admin only. Derived fields are
	// recomputed server-side whenever the item list changes.
	Update(ctx context.Context, p *auth.Principal, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error)

	// Delete removes an order. Admin only.
	Delete(ctx context.Context, p *auth.Principal, id uuid.UUID) error

	// SearchByCustomerName is the public customer lookup.
	SearchByCustomerName(ctx context.Context, name string) ([]model.Order, error)

	// Statistics returns the admin dashboard summary.
	Statistics(ctx context.Context, p *auth.Principal) (*model.Statistics, error)

	// EmployeeOverview returns the admin employee roster with order counts.
	EmployeeOverview(ctx context.Context, p *auth.Principal) ([]model.EmployeeOverview, error)
}

// AuthService defines account and token operations.
type AuthService interface {
	// Register creates a staff account and issues a token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Authenticate resolves a bearer token into a principal.
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)

	// Logout revokes the presented token.
	Logout(ctx context.Context, token string) error

	// Me returns the account behind the principal.
	Me(ctx context.Context, p *auth.Principal) (*model.User, error)
}

// AnalyticsService assembles the six dashboard views.
type AnalyticsService interface {
	// Report computes all six views. Admin only.
	Report(ctx context.Context, p *auth.Principal) (*model.AnalyticsReport, error)
}
