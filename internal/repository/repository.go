package repository

import (
	"context"
	"time"

	"laundry-pos/internal/model"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts a new order. Items are embedded as a jsonb
	// document, so the write is a single atomic statement.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order with its owning user summary.
	// Returns nil when no order matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders matching the filter, newest first.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// Update overwrites all mutable fields of an existing order.
	// Last write wins; there is no optimistic lock.
	Update(ctx context.Context, order *model.Order) error

	// Delete removes an order. Returns model.ErrOrderNotFound when no
	// row matches.
	Delete(ctx context.Context, id uuid.UUID) error

	// SearchByCustomerName retrieves orders whose customer name
	// matches exactly, as a prefix followed by a space, or as a
	// standalone word, newest first.
	SearchByCustomerName(ctx context.Context, name string) ([]model.Order, error)

	// Statistics computes the admin dashboard summary counts and
	// completed-order revenue.
	Statistics(ctx context.Context) (*model.Statistics, error)
}

// UserRepository defines the interface for staff account data access.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by id. Returns nil when no user matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email. Returns nil when no user
	// matches.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// EmployeeRows retrieves all employee accounts with their order
	// counts, newest account first.
	EmployeeRows(ctx context.Context) ([]model.EmployeeRow, error)
}

// TokenRepository defines the interface for personal access tokens.
type TokenRepository interface {
	// Create inserts a new token row.
	Create(ctx context.Context, token *model.AuthToken) error

	// GetByHash retrieves a token by its stored hash. Returns nil when
	// no token matches.
	GetByHash(ctx context.Context, hash string) (*model.AuthToken, error)

	// DeleteByHash revokes the token with the given hash.
	DeleteByHash(ctx context.Context, hash string) error

	// TouchLastUsed records when the token last authenticated a request.
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AnalyticsRepository defines the aggregate queries behind the six
// dashboard views. Each query runs independently over the current
// order set; no cross-view isolation is attempted.
type AnalyticsRepository interface {
	ServiceTypeCounts(ctx context.Context) ([]model.ServiceTypeBucket, error)
	WeekdayCounts(ctx context.Context) ([]model.WeekdayBucket, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]model.MonthRevenueBucket, error)
	TopCustomers(ctx context.Context, limit int) ([]model.CustomerBucket, error)
	HourlyCounts(ctx context.Context) ([]model.HourBucket, error)
	StatusCounts(ctx context.Context) ([]model.StatusBucket, error)
}
