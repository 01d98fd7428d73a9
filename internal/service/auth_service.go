package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"
	"quizdeck/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokenTypeAccess   = "access"
	tokenTypeRefresh  = "refresh"

	minPasswordLength = 6
)

var (
	ErrInvalidAuthState      = errors.New("invalid oauth state")
	ErrFailedToExchangeToken = errors.New("failed to exchange oauth token")
	ErrFailedToGetUserInfo   = errors.New("failed to get user info from google")
	ErrInvalidJWTToken       = errors.New("invalid jwt token")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*domain.User, *dto.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*domain.User, *dto.TokenResponse, error)
	GetGoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string, receivedState string, expectedState string) (*domain.User, *dto.TokenResponse, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
}

type authServiceImpl struct {
	userRepo     repository.UserRepository
	oauth2Config *oauth2.Config
	appConfig    *config.Config
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repository.UserRepository, appConfig *config.Config) (AuthService, error) {
	if len(appConfig.JWT.SecretKey) == 0 {
		return nil, errors.New("jwt secret key is not configured")
	}

	return &authServiceImpl{
		userRepo: userRepo,
		oauth2Config: &oauth2.Config{
			ClientID:     appConfig.GoogleOAuth.ClientID,
			ClientSecret: appConfig.GoogleOAuth.ClientSecret,
			RedirectURL:  appConfig.GoogleOAuth.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		appConfig: appConfig,
	}, nil
}

// Register creates an email/password account. The password must clear the
// minimum length before it is hashed; the fixed auth messages are surfaced
// to the client verbatim.
func (s *authServiceImpl) Register(ctx context.Context, email, password, displayName string) (*domain.User, *dto.TokenResponse, error) {
	appLogger := logger.Get()

	if len(password) < minPasswordLength {
		return nil, nil, domain.NewAuthError(domain.CodeWeakPassword)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to look up email", err)
	}
	if existing != nil {
		return nil, nil, domain.NewAuthError(domain.CodeEmailInUse)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUser(util.NewULID(), email, displayName)
	user.PasswordHash = string(hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, domain.NewInternalError("failed to create user", err)
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	appLogger.Info("New user registered", zap.String("userID", user.ID), zap.String("email", user.Email))
	return user, tokens, nil
}

// Login verifies an email/password pair and issues fresh tokens.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, *dto.TokenResponse, error) {
	appLogger := logger.Get()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to look up email", err)
	}
	if user == nil {
		return nil, nil, domain.NewAuthError(domain.CodeUserNotFound)
	}
	if user.PasswordHash == "" {
		// Google-only account; there is no password to check.
		return nil, nil, domain.NewAuthError(domain.CodeInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.NewAuthError(domain.CodeWrongPassword)
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	appLogger.Info("User logged in", zap.String("userID", user.ID))
	return user, tokens, nil
}

func (s *authServiceImpl) GetGoogleLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleGoogleCallback completes the OAuth dance: exchanges the code,
// fetches the Google profile and creates or refreshes the local account.
func (s *authServiceImpl) HandleGoogleCallback(ctx context.Context, code string, receivedState string, expectedState string) (*domain.User, *dto.TokenResponse, error) {
	appLogger := logger.Get()
	if receivedState != expectedState {
		return nil, nil, ErrInvalidAuthState
	}

	googleToken, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFailedToExchangeToken, err)
	}

	client := s.oauth2Config.Client(ctx, googleToken)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err)
	}
	defer resp.Body.Close()

	var userInfo dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if userInfo.ID == "" || userInfo.Email == "" {
		return nil, nil, errors.New("google user info is incomplete")
	}

	user, err := s.userRepo.GetByGoogleID(ctx, userInfo.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching user by google id: %w", err)
	}

	if user == nil {
		user = domain.NewUser(util.NewULID(), userInfo.Email, userInfo.Name)
		user.GoogleID = userInfo.ID
		user.PhotoURL = userInfo.Picture
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
		appLogger.Info("New user created via Google OAuth",
			zap.String("userID", user.ID), zap.String("email", user.Email))
	} else {
		patch := map[string]any{
			"displayName": userInfo.Name,
			"photoUrl":    userInfo.Picture,
		}
		if err := s.userRepo.Update(ctx, user.ID, patch); err != nil {
			return nil, nil, fmt.Errorf("failed to update user: %w", err)
		}
		user.DisplayName = userInfo.Name
		user.PhotoURL = userInfo.Picture
		appLogger.Info("User logged in via Google OAuth", zap.String("userID", user.ID))
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, userID string) (*dto.TokenResponse, error) {
	accessToken, err := s.CreateJWT(ctx, userID, s.appConfig.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.CreateJWT(ctx, userID, s.appConfig.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error) {
	claims := dto.AuthClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.JWT.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, errors.New("not a refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user for refresh", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(claims.UserID)
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return tokens, nil
}
