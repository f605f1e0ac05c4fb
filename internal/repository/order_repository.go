package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"laundry-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `
	o.id, o.user_id, o.customer_name, o.customer_phone, o.customer_email,
	o.items, o.service_type, o.total_amount, o.status, o.delivery_method,
	o.pickup_date, o.delivery_date, o.notes, o.created_at, o.updated_at,
	u.id, u.name, u.email, u.role
`

// Create inserts a new order.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, user_id, customer_name, customer_phone, customer_email,
			items, service_type, total_amount, status, delivery_method,
			pickup_date, delivery_date, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.pool.Exec(ctx, query,
		order.ID, order.UserID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		itemsJSON, order.ServiceType, order.TotalAmount, order.Status, order.DeliveryMethod,
		order.PickupDate, order.DeliveryDate, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order with its owning user summary.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// List retrieves orders matching the filter, newest first.
func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("o.user_id = %s", arg(*filter.UserID)))
	}

	if filter.Date != nil {
		// Match the selected calendar date and, when skew compensation
		// is on, the day(s) immediately before it. UTC-stored
		// timestamps can display as the next local day.
		dateParam := arg(filter.Date.Format("2006-01-02"))
		if filter.DateSkewDays > 0 {
			skewParam := arg(filter.DateSkewDays)
			conditions = append(conditions, fmt.Sprintf(
				"(o.created_at::date = %s::date OR o.created_at::date = %s::date - %s::int)",
				dateParam, dateParam, skewParam))
		} else {
			conditions = append(conditions, fmt.Sprintf("o.created_at::date = %s::date", dateParam))
		}
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("o.created_at::date >= %s::date",
			arg(filter.StartDate.Format("2006-01-02"))))
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("o.created_at::date <= %s::date",
			arg(filter.EndDate.Format("2006-01-02"))))
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// Update overwrites all mutable fields of an existing order.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		UPDATE orders
		SET customer_name = $2,
		    customer_phone = $3,
		    customer_email = $4,
		    items = $5,
		    service_type = $6,
		    total_amount = $7,
		    status = $8,
		    delivery_method = $9,
		    pickup_date = $10,
		    delivery_date = $11,
		    notes = $12,
		    updated_at = $13
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		order.ID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		itemsJSON, order.ServiceType, order.TotalAmount, order.Status, order.DeliveryMethod,
		order.PickupDate, order.DeliveryDate, order.Notes, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// SearchByCustomerName retrieves orders for the public customer lookup.
// The three OR-combined alternatives tolerate partial name entry while
// avoiding pure substring false positives.
func (r *orderRepository) SearchByCustomerName(ctx context.Context, name string) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.customer_name = $1
		   OR o.customer_name ILIKE $1 || ' %'
		   OR o.customer_name ILIKE '% ' || $1 || '%'
		ORDER BY o.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_name", name).Msg("failed to search orders")
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// Statistics computes the admin dashboard summary in a single pass.
func (r *orderRepository) Statistics(ctx context.Context) (*model.Statistics, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'processing'),
			count(*) FILTER (WHERE status = 'ready'),
			count(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed'), 0)
		FROM orders
	`

	var stats model.Statistics
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalOrders,
		&stats.PendingOrders,
		&stats.ProcessingOrders,
		&stats.ReadyOrders,
		&stats.CompletedOrders,
		&stats.TotalRevenue,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to compute statistics")
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return &stats, nil
}

// scanOrder scans a single joined order+user row.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order     model.Order
		user      model.UserSummary
		itemsJSON []byte
	)

	err := row.Scan(
		&order.ID, &order.UserID, &order.CustomerName, &order.CustomerPhone, &order.CustomerEmail,
		&itemsJSON, &order.ServiceType, &order.TotalAmount, &order.Status, &order.DeliveryMethod,
		&order.PickupDate, &order.DeliveryDate, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
		&user.ID, &user.Name, &user.Email, &user.Role,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	order.User = &user
	return &order, nil
}

// collectOrders drains joined order+user rows.
func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
