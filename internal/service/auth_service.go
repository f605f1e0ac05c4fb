package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"laundry-pos/internal/auth"
	"laundry-pos/internal/model"
	"laundry-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with bcrypt password hashing and
// opaque bearer tokens stored by SHA-256 hash.
type authService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	bcryptCost int,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		bcryptCost: bcryptCost,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a staff account and issues a token.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	ve := model.NewValidationError()

	if strings.TrimSpace(req.Name) == "" {
		ve.Add("name", "The name field is required.")
	}
	if strings.TrimSpace(req.Email) == "" {
		ve.Add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		ve.Add("email", "The email must be a valid email address.")
	}
	if len(req.Password) < 8 {
		ve.Add("password", "The password must be at least 8 characters.")
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleEmployee
	} else if !role.Valid() {
		ve.Add("role", "The selected role is invalid.")
	}

	if ve.HasErrors() {
		return nil, ve
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		ve.Add("email", "The email has already been taken.")
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user registered")

	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token. Failures surface as a
// validation error on the email field without revealing whether the
// account exists.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	ve := model.NewValidationError()
	if strings.TrimSpace(req.Email) == "" {
		ve.Add("email", "The email field is required.")
	}
	if req.Password == "" {
		ve.Add("password", "The password field is required.")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn().Str("email", req.Email).Msg("failed login attempt")
		ve.Add("email", "The provided credentials are incorrect.")
		return nil, ve
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token into a principal.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}

	row, err := s.tokenRepo.GetByHash(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if row == nil {
		return nil, model.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, row.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidToken
	}

	// Best effort; an authenticated request never fails on bookkeeping.
	if err := s.tokenRepo.TouchLastUsed(ctx, row.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("token_id", row.ID.String()).Msg("failed to touch token")
	}

	return &auth.Principal{ID: user.ID, Role: user.Role}, nil
}

// Logout revokes the presented token.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return model.ErrInvalidToken
	}
	if err := s.tokenRepo.DeleteByHash(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Me returns the account behind the principal.
func (s *authService) Me(ctx context.Context, p *auth.Principal) (*model.User, error) {
	if p == nil {
		return nil, model.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// issueToken mints an opaque token and stores only its hash.
func (s *authService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	now := time.Now().UTC()
	if err := s.tokenRepo.Create(ctx, &model.AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken(token),
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// hashToken returns the hex SHA-256 of the token secret.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
