package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notSure-ded/healthCare/pkg/config"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// UserStore defines the persistence operations the service needs
type UserStore interface {
	Create(user *types.User) error
	GetByID(id string) (*types.User, error)
	GetByEmail(email string) (*types.User, error)
}

// PasswordHasher defines password hashing operations
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) (bool, error)
}

// Service implements account registration and authentication
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	users     UserStore
	passwords PasswordHasher
	tokens    *TokenManager
}

// NewService creates a new auth service
func NewService(cfg *config.Config, log *logger.Logger, users UserStore, passwords PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		config:    cfg,
		logger:    log,
		users:     users,
		passwords: passwords,
		tokens:    tokens,
	}
}

// Register creates a new account with a hashed password credential
func (s *Service) Register(req *types.RegistrationRequest) (*types.User, error) {
	s.logger.WithField("email", req.Email).Info("Registering new user")

	// Check if the email is already taken, case-insensitively. The unique
	// index on LOWER(email) catches the race with a concurrent register.
	if existing, _ := s.users.GetByEmail(req.Email); existing != nil {
		return nil, types.NewValidationError(
			types.ErrCodeEmailExists,
			"A user with this email address already exists",
			map[string]interface{}{"field": "email"},
		)
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      false,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("User registered successfully")
	return user, nil
}

// Login authenticates a user and returns a JWT token pair. Unknown email,
// wrong password and an inactive account all produce the same error.
func (s *Service) Login(credentials *types.Credentials) (*types.AuthToken, error) {
	user, err := s.users.GetByEmail(credentials.Email)
	if err != nil {
		// Only an absent account reads as bad credentials; a storage
		// failure stays a server error.
		if isNotFound(err) {
			return nil, types.NewAuthenticationError(
				types.ErrCodeInvalidCredentials,
				"Invalid email or password",
			)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		s.logger.Security("inactive_account_login", user.ID, nil)
		return nil, types.NewAuthenticationError(
			types.ErrCodeInvalidCredentials,
			"Invalid email or password",
		)
	}

	ok, err := s.passwords.VerifyPassword(user.PasswordHash, credentials.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.logger.Security("failed_login", user.ID, nil)
		return nil, types.NewAuthenticationError(
			types.ErrCodeInvalidCredentials,
			"Invalid email or password",
		)
	}

	token, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("User authenticated successfully")
	return token, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(refreshToken string) (*types.AuthToken, error) {
	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, types.NewAuthenticationError(
			types.ErrCodeInvalidToken,
			"Invalid refresh token",
		)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, types.NewAuthenticationError(
				types.ErrCodeInvalidToken,
				"Invalid refresh token",
			)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, types.NewAuthenticationError(
			types.ErrCodeInvalidToken,
			"Invalid refresh token",
		)
	}

	return s.issueTokenPair(user)
}

func isNotFound(err error) bool {
	var svcErr *types.ServiceError
	return errors.As(err, &svcErr) && svcErr.Type == types.ErrorTypeNotFound
}

func (s *Service) issueTokenPair(user *types.User) (*types.AuthToken, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &types.AuthToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.JWT.AccessTokenTTL),
		IssuedAt:     time.Now(),
	}, nil
}
