package repository

import (
	"context"
	"fmt"
	"time"

	"laundry-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// tokenRepository implements the TokenRepository interface using PostgreSQL.
type tokenRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTokenRepository creates a new PostgreSQL-backed token repository.
func NewTokenRepository(pool *pgxpool.Pool, logger zerolog.Logger) TokenRepository {
	return &tokenRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "token").Logger(),
	}
}

// Create inserts a new token row.
func (r *tokenRepository) Create(ctx context.Context, token *model.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token_hash, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.LastUsedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", token.UserID.String()).Msg("failed to create token")
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

// GetByHash retrieves a token by its stored hash.
func (r *tokenRepository) GetByHash(ctx context.Context, hash string) (*model.AuthToken, error) {
	query := `
		SELECT id, user_id, token_hash, created_at, last_used_at
		FROM auth_tokens
		WHERE token_hash = $1
	`

	var token model.AuthToken
	err := r.pool.QueryRow(ctx, query, hash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.CreatedAt, &token.LastUsedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query token")
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	return &token, nil
}

// DeleteByHash revokes the token with the given hash.
func (r *tokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1`, hash)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete token")
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// TouchLastUsed records when the token last authenticated a request.
func (r *tokenRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE auth_tokens SET last_used_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		r.logger.Error().Err(err).Str("token_id", id.String()).Msg("failed to touch token")
		return fmt.Errorf("failed to touch token: %w", err)
	}
	return nil
}
