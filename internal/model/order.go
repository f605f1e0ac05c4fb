package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType identifies the laundry service applied to an item or,
// at order level, the derived summary of all item service types.
type ServiceType string

const (
	ServiceTypeWashDry  ServiceType = "wash_dry"
	ServiceTypeWashOnly ServiceType = "wash_only"
	ServiceTypeDryOnly  ServiceType = "dry_only"
	ServiceTypeMixed    ServiceType = "mixed"
)

// ValidForItem reports whether the value is one of the three base
// service types. "mixed" is an order-level derived value only and is
// never valid on an individual item.
func (s ServiceType) ValidForItem() bool {
	switch s {
	case ServiceTypeWashDry, ServiceTypeWashOnly, ServiceTypeDryOnly:
		return true
	}
	return false
}

// OrderStatus is the processing state of an order. There is no
// enforced transition graph; an admin may set any value at any time.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the value is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DeliveryMethod determines which of the two order dates is populated.
type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryDeliver DeliveryMethod = "deliver"
)

// Valid reports whether the value is a known delivery method.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryPickup || m == DeliveryDeliver
}

// OrderItem is a single line item within an order. Items are stored as
// a jsonb document on the order row, not as separate rows.
type OrderItem struct {
	Name        string      `json:"name"`
	Quantity    int         `json:"quantity"`
	ServiceType ServiceType `json:"service_type"`
}

// Order is a single customer laundry transaction.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerEmail  *string         `json:"customer_email,omitempty"`
	Items          []OrderItem     `json:"items"`
	ServiceType    ServiceType     `json:"service_type"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         OrderStatus     `json:"status"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method"`
	PickupDate     *time.Time      `json:"pickup_date,omitempty"`
	DeliveryDate   *time.Time      `json:"delivery_date,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	User           *UserSummary    `json:"user,omitempty"`
}

// OrderItemRequest is a line item as supplied by the client.
type OrderItemRequest struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	ServiceType string `json:"service_type"`
}

// CreateOrderRequest is the payload for creating an order. Derived
// fields (total_amount, order-level service_type) are never accepted
// from the client; the server computes them.
type CreateOrderRequest struct {
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone"`
	CustomerEmail  *string            `json:"customer_email,omitempty"`
	Items          []OrderItemRequest `json:"items"`
	Notes          *string            `json:"notes,omitempty"`
	PickupDate     *string            `json:"pickup_date,omitempty"`
	DeliveryDate   *string            `json:"delivery_date,omitempty"`
	DeliveryMethod string             `json:"delivery_method"`
}

// UpdateOrderRequest is the payload for a partial order update. Nil
// fields are left untouched. Client-supplied derived fields are not
// modelled at all: totals and the order-level service type are always
// recomputed when Items is present.
type UpdateOrderRequest struct {
	CustomerName   *string             `json:"customer_name,omitempty"`
	CustomerPhone  *string             `json:"customer_phone,omitempty"`
	CustomerEmail  *string             `json:"customer_email,omitempty"`
	Items          *[]OrderItemRequest `json:"items,omitempty"`
	Status         *string             `json:"status,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
	PickupDate     *string             `json:"pickup_date,omitempty"`
	DeliveryDate   *string             `json:"delivery_date,omitempty"`
	DeliveryMethod *string             `json:"delivery_method,omitempty"`
}

// OrderListQuery carries the optional list filters as supplied on the
// query string. Values are validated and parsed by the service layer.
type OrderListQuery struct {
	Date      *string
	StartDate *string
	EndDate   *string
}

// OrderFilter is the parsed, repository-level form of OrderListQuery.
// UserID, when set, scopes results to a single owner.
type OrderFilter struct {
	UserID    *uuid.UUID
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	// DateSkewDays widens the single-date filter to also match orders
	// created this many days earlier, compensating for UTC-vs-local
	// display skew. Zero disables the compensation.
	DateSkewDays int
}

// Statistics is the admin dashboard summary.
type Statistics struct {
	TotalOrders      int             `json:"total_orders"`
	PendingOrders    int             `json:"pending_orders"`
	ProcessingOrders int             `json:"processing_orders"`
	ReadyOrders      int             `json:"ready_orders"`
	CompletedOrders  int             `json:"completed_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}
