package repository

import (
	"context"
	"fmt"
	"time"

	"laundry-pos/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// analyticsRepository implements AnalyticsRepository using PostgreSQL
// aggregate queries over the orders table.
type analyticsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool *pgxpool.Pool, logger zerolog.Logger) AnalyticsRepository {
	return &analyticsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "analytics").Logger(),
	}
}

// ServiceTypeCounts groups orders by their order-level service type.
func (r *analyticsRepository) ServiceTypeCounts(ctx context.Context) ([]model.ServiceTypeBucket, error) {
	query := `
		SELECT service_type, count(*)
		FROM orders
		GROUP BY service_type
		ORDER BY service_type
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query service type counts")
		return nil, fmt.Errorf("failed to query service type counts: %w", err)
	}
	defer rows.Close()

	var buckets []model.ServiceTypeBucket
	for rows.Next() {
		var b model.ServiceTypeBucket
		if err := rows.Scan(&b.ServiceType, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan service type bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// WeekdayCounts groups orders by weekday name, Sunday first.
func (r *analyticsRepository) WeekdayCounts(ctx context.Context) ([]model.WeekdayBucket, error) {
	query := `
		SELECT trim(to_char(created_at, 'Day')), count(*)
		FROM orders
		GROUP BY trim(to_char(created_at, 'Day')), extract(dow FROM created_at)
		ORDER BY extract(dow FROM created_at)
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query weekday counts")
		return nil, fmt.Errorf("failed to query weekday counts: %w", err)
	}
	defer rows.Close()

	var buckets []model.WeekdayBucket
	for rows.Next() {
		var b model.WeekdayBucket
		if err := rows.Scan(&b.Day, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan weekday bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// MonthlyRevenue sums completed-order totals per month since the given
// instant, chronologically.
func (r *analyticsRepository) MonthlyRevenue(ctx context.Context, since time.Time) ([]model.MonthRevenueBucket, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM'), sum(total_amount)
		FROM orders
		WHERE status = 'completed' AND created_at >= $1
		GROUP BY to_char(created_at, 'YYYY-MM')
		ORDER BY to_char(created_at, 'YYYY-MM')
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query monthly revenue")
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	var buckets []model.MonthRevenueBucket
	for rows.Next() {
		var b model.MonthRevenueBucket
		if err := rows.Scan(&b.Month, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// TopCustomers returns the most frequent customers by order count,
// with lifetime spend across all statuses.
func (r *analyticsRepository) TopCustomers(ctx context.Context, limit int) ([]model.CustomerBucket, error) {
	query := `
		SELECT customer_name, count(*), sum(total_amount)
		FROM orders
		GROUP BY customer_name
		ORDER BY count(*) DESC, customer_name
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top customers")
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	var buckets []model.CustomerBucket
	for rows.Next() {
		var b model.CustomerBucket
		if err := rows.Scan(&b.CustomerName, &b.OrderCount, &b.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan customer bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// HourlyCounts groups orders by hour of day, ascending.
func (r *analyticsRepository) HourlyCounts(ctx context.Context) ([]model.HourBucket, error) {
	query := `
		SELECT extract(hour FROM created_at)::int, count(*)
		FROM orders
		GROUP BY extract(hour FROM created_at)::int
		ORDER BY extract(hour FROM created_at)::int
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query hourly counts")
		return nil, fmt.Errorf("failed to query hourly counts: %w", err)
	}
	defer rows.Close()

	var buckets []model.HourBucket
	for rows.Next() {
		var b model.HourBucket
		if err := rows.Scan(&b.Hour, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hour bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// StatusCounts groups orders by status.
func (r *analyticsRepository) StatusCounts(ctx context.Context) ([]model.StatusBucket, error) {
	query := `
		SELECT status, count(*)
		FROM orders
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query status counts")
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	var buckets []model.StatusBucket
	for rows.Next() {
		var b model.StatusBucket
		if err := rows.Scan(&b.Status, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
