package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"laundry-pos/internal/model"

	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	// Same codec registration as database.NewPool: numeric columns
	// scan directly into decimal.Decimal.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'employee')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			customer_name VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(20) NOT NULL,
			customer_email VARCHAR(255),
			items JSONB NOT NULL DEFAULT '[]',
			service_type VARCHAR(20) NOT NULL,
			total_amount DECIMAL(10, 2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			delivery_method VARCHAR(20) NOT NULL,
			pickup_date DATE,
			delivery_date DATE,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS auth_tokens (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash VARCHAR(64) NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_used_at TIMESTAMPTZ
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_orders_customer_name ON orders(customer_name);
		CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedUser inserts a staff account and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, name, email, passwordHash string, role model.Role) *model.User {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}

	return user
}

// SeedOrder inserts an order owned by the given user and returns it.
// Mutate the returned order through the variadic opts before insert.
func SeedOrder(t *testing.T, pool *pgxpool.Pool, owner *model.User, customerName string, opts ...func(*model.Order)) *model.Order {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        owner.ID,
		CustomerName:  customerName,
		CustomerPhone: "09170000000",
		Items: []model.OrderItem{
			{Name: "Shirts", Quantity: 1, ServiceType: model.ServiceTypeWashDry},
		},
		ServiceType:    model.ServiceTypeWashDry,
		TotalAmount:    decimal.NewFromInt(100),
		Status:         model.StatusPending,
		DeliveryMethod: model.DeliveryPickup,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	pickup := now.AddDate(0, 0, 2)
	order.PickupDate = &pickup

	for _, opt := range opts {
		opt(order)
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		t.Fatalf("failed to encode order items: %v", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO orders (
			id, user_id, customer_name, customer_phone, customer_email,
			items, service_type, total_amount, status, delivery_method,
			pickup_date, delivery_date, notes, created_at, updated_at
		 )
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.UserID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		itemsJSON, order.ServiceType, order.TotalAmount, order.Status, order.DeliveryMethod,
		order.PickupDate, order.DeliveryDate, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed order for %s: %v", customerName, err)
	}

	return order
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"auth_tokens", "orders", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
