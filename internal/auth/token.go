package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notSure-ded/healthCare/pkg/config"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// JWTClaims represents the claims carried by issued tokens
type JWTClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates JWT tokens
type TokenManager struct {
	config *config.JWTConfig
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{
		config: cfg,
	}
}

// GenerateAccessToken generates a signed access token for the user
func (tm *TokenManager) GenerateAccessToken(user *types.User) (string, error) {
	return tm.generate(user, "access", time.Duration(tm.config.AccessTokenTTL)*time.Second)
}

// GenerateRefreshToken generates a signed refresh token for the user
func (tm *TokenManager) GenerateRefreshToken(user *types.User) (string, error) {
	return tm.generate(user, "refresh", time.Duration(tm.config.RefreshTokenTTL)*time.Second)
}

func (tm *TokenManager) generate(user *types.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		IsStaff:   user.IsStaff,
		IsActive:  user.IsActive,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.config.Issuer,
			Audience:  jwt.ClaimStrings{tm.config.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.config.SecretKey))
}

// ValidateAccessToken validates an access token and returns the caller claims
func (tm *TokenManager) ValidateAccessToken(tokenString string) (*types.UserClaims, error) {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "access" {
		return nil, fmt.Errorf("token is not an access token")
	}

	return &types.UserClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		IsStaff:  claims.IsStaff,
		IsActive: claims.IsActive,
	}, nil
}

// ValidateRefreshToken validates a refresh token and returns the user ID it
// was issued for
func (tm *TokenManager) ValidateRefreshToken(tokenString string) (string, error) {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims.TokenType != "refresh" {
		return "", fmt.Errorf("token is not a refresh token")
	}

	return claims.UserID, nil
}

func (tm *TokenManager) parse(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.config.SecretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	// Check expiration
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}

	return claims, nil
}
