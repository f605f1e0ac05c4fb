package service

import (
	"context"
	"testing"
	"time"

	"laundry-pos/internal/auth"
	"laundry-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt.MinCost keeps the hash rounds cheap for tests.
func newTestAuthService(userRepo *MockUserRepository, tokenRepo *MockTokenRepository) AuthService {
	return NewAuthService(userRepo, tokenRepo, bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockTokenRepository)
	svc := newTestAuthService(userRepo, tokenRepo)

	userRepo.On("GetByEmail", mock.Anything, "jo@shop.test").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.AuthToken")).Return(nil)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Jo",
		Email:    "jo@shop.test",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// role defaults to employee when omitted
	assert.Equal(t, model.RoleEmployee, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, "sup3rsecret", resp.User.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(resp.User.PasswordHash), []byte("sup3rsecret")))

	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name      string
		req       *model.RegisterRequest
		wantField string
	}{
		{"missing name", &model.RegisterRequest{Email: "a@b.test", Password: "longenough"}, "name"},
		{"missing email", &model.RegisterRequest{Name: "Jo", Password: "longenough"}, "email"},
		{"bad email", &model.RegisterRequest{Name: "Jo", Email: "nope", Password: "longenough"}, "email"},
		{"short password", &model.RegisterRequest{Name: "Jo", Email: "a@b.test", Password: "short"}, "password"},
		{"bad role", &model.RegisterRequest{Name: "Jo", Email: "a@b.test", Password: "longenough", Role: "owner"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			svc := newTestAuthService(userRepo, new(MockTokenRepository))

			_, err := svc.Register(context.Background(), tt.req)
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Errors, tt.wantField)
			userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(userRepo, new(MockTokenRepository))

	existing := &model.User{ID: uuid.New(), Email: "jo@shop.test"}
	userRepo.On("GetByEmail", mock.Anything, "jo@shop.test").Return(existing, nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Jo",
		Email:    "jo@shop.test",
		Password: "sup3rsecret",
	})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"The email has already been taken."}, ve.Errors["email"])
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{ID: uuid.New(), Email: "jo@shop.test", PasswordHash: string(hash), Role: model.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockTokenRepository)
		svc := newTestAuthService(userRepo, tokenRepo)

		userRepo.On("GetByEmail", mock.Anything, "jo@shop.test").Return(user, nil)
		tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.AuthToken")).Return(nil)

		resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: "jo@shop.test", Password: "sup3rsecret"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockTokenRepository)
		svc := newTestAuthService(userRepo, tokenRepo)

		userRepo.On("GetByEmail", mock.Anything, "jo@shop.test").Return(user, nil)

		_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "jo@shop.test", Password: "wrong"})
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []string{"The provided credentials are incorrect."}, ve.Errors["email"])
		tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown account reads the same as wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo, new(MockTokenRepository))

		userRepo.On("GetByEmail", mock.Anything, "ghost@shop.test").Return(nil, nil)

		_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "ghost@shop.test", Password: "whatever"})
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []string{"The provided credentials are incorrect."}, ve.Errors["email"])
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository), new(MockTokenRepository))

		_, err := svc.Login(context.Background(), &model.LoginRequest{})
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Errors, "email")
		assert.Contains(t, ve.Errors, "password")
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleEmployee}
	token := "opaque-secret"
	row := &model.AuthToken{ID: uuid.New(), UserID: user.ID, TokenHash: hashToken(token)}

	t.Run("valid token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockTokenRepository)
		svc := newTestAuthService(userRepo, tokenRepo)

		tokenRepo.On("GetByHash", mock.Anything, hashToken(token)).Return(row, nil)
		userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		tokenRepo.On("TouchLastUsed", mock.Anything, row.ID, mock.AnythingOfType("time.Time")).Return(nil)

		p, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, p.ID)
		assert.Equal(t, model.RoleEmployee, p.Role)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		tokenRepo := new(MockTokenRepository)
		svc := newTestAuthService(new(MockUserRepository), tokenRepo)

		tokenRepo.On("GetByHash", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)

		_, err := svc.Authenticate(context.Background(), "bogus")
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository), new(MockTokenRepository))

		_, err := svc.Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockTokenRepository)
		svc := newTestAuthService(userRepo, tokenRepo)

		tokenRepo.On("GetByHash", mock.Anything, hashToken(token)).Return(row, nil)
		userRepo.On("GetByID", mock.Anything, user.ID).Return(nil, nil)

		_, err := svc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("touch failure does not break authentication", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockTokenRepository)
		svc := newTestAuthService(userRepo, tokenRepo)

		tokenRepo.On("GetByHash", mock.Anything, hashToken(token)).Return(row, nil)
		userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		tokenRepo.On("TouchLastUsed", mock.Anything, row.ID, mock.AnythingOfType("time.Time")).
			Return(assert.AnError)

		p, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, p.ID)
	})
}

func TestAuthService_Logout(t *testing.T) {
	tokenRepo := new(MockTokenRepository)
	svc := newTestAuthService(new(MockUserRepository), tokenRepo)

	tokenRepo.On("DeleteByHash", mock.Anything, hashToken("opaque-secret")).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), "opaque-secret"))
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Me(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(userRepo, new(MockTokenRepository))

		user := &model.User{ID: uuid.New(), Name: "Jo", CreatedAt: time.Now()}
		userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		got, err := svc.Me(context.Background(), &auth.Principal{ID: user.ID, Role: model.RoleEmployee})
		require.NoError(t, err)
		assert.Equal(t, "Jo", got.Name)
	})

	t.Run("nil principal", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserRepository), new(MockTokenRepository))

		_, err := svc.Me(context.Background(), nil)
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}
