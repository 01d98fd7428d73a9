package service

import (
	"context"
	"testing"
	"time"

	"quizdeck/internal/config"
	"quizdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func authConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret-key",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and issues both tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
		var created *domain.User
		userRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.User)
		}).Return(nil)

		user, tokens, err := svc.Register(ctx, "new@example.com", "secret123", "Newcomer")
		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Same(t, user, created)
		// Stored hash must verify against the raw password and never equal it.
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		_, _, err = svc.Register(ctx, "new@example.com", "short", "Newcomer")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeWeakPassword, domainErr.Code)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an email already in use", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "taken@example.com").
			Return(&domain.User{ID: "user1", Email: "taken@example.com"}, nil)

		_, _, err = svc.Register(ctx, "taken@example.com", "secret123", "Copycat")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeEmailInUse, domainErr.Code)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	hashedUser := func() *domain.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
		return &domain.User{ID: "user1", Email: "u@example.com", PasswordHash: string(hash)}
	}

	t.Run("valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "u@example.com").Return(hashedUser(), nil)

		user, tokens, err := svc.Login(ctx, "u@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, "user1", user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "u@example.com").Return(hashedUser(), nil)

		_, _, err = svc.Login(ctx, "u@example.com", "wrong")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeWrongPassword, domainErr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUserNotFound, domainErr.Code)
	})

	t.Run("google-only account has no password to check", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByEmail", ctx, "g@example.com").
			Return(&domain.User{ID: "user2", Email: "g@example.com", GoogleID: "g-123"}, nil)

		_, _, err = svc.Login(ctx, "g@example.com", "secret123")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeInvalidCredentials, domainErr.Code)
	})
}

func TestAuthServiceTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("jwt round trip preserves claims", func(t *testing.T) {
		svc, err := NewAuthService(new(MockUserRepository), authConfig())
		assert.NoError(t, err)

		tokenString, err := svc.CreateJWT(ctx, "user1", time.Minute, tokenTypeAccess)
		assert.NoError(t, err)

		claims, err := svc.ValidateJWT(ctx, tokenString)
		assert.NoError(t, err)
		assert.Equal(t, "user1", claims.UserID)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		svc, err := NewAuthService(new(MockUserRepository), authConfig())
		assert.NoError(t, err)

		tokenString, err := svc.CreateJWT(ctx, "user1", -time.Minute, tokenTypeAccess)
		assert.NoError(t, err)

		_, err = svc.ValidateJWT(ctx, tokenString)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc, err := NewAuthService(new(MockUserRepository), authConfig())
		assert.NoError(t, err)

		_, err = svc.ValidateJWT(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("refresh requires a refresh token", func(t *testing.T) {
		svc, err := NewAuthService(new(MockUserRepository), authConfig())
		assert.NoError(t, err)

		accessToken, err := svc.CreateJWT(ctx, "user1", time.Minute, tokenTypeAccess)
		assert.NoError(t, err)

		_, err = svc.RefreshToken(ctx, accessToken)
		assert.Error(t, err)
	})

	t.Run("refresh rotates both tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1"}, nil)

		refreshToken, err := svc.CreateJWT(ctx, "user1", time.Hour, tokenTypeRefresh)
		assert.NoError(t, err)

		tokens, err := svc.RefreshToken(ctx, refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("refresh for a deleted user fails", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc, err := NewAuthService(userRepo, authConfig())
		assert.NoError(t, err)

		userRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

		refreshToken, err := svc.CreateJWT(ctx, "ghost", time.Hour, tokenTypeRefresh)
		assert.NoError(t, err)

		_, err = svc.RefreshToken(ctx, refreshToken)
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeUserNotFound, domainErr.Code)
	})
}

func TestAuthServiceGoogleState(t *testing.T) {
	t.Run("state mismatch aborts the callback", func(t *testing.T) {
		svc, err := NewAuthService(new(MockUserRepository), authConfig())
		assert.NoError(t, err)

		_, _, err = svc.HandleGoogleCallback(context.Background(), "code", "received", "expected")
		assert.ErrorIs(t, err, ErrInvalidAuthState)
	})

	t.Run("login url carries the state", func(t *testing.T) {
		svc, err := NewAuthService(new(MockUserRepository), authConfig())
		assert.NoError(t, err)

		url := svc.GetGoogleLoginURL("state-123")
		assert.Contains(t, url, "state=state-123")
	})
}
