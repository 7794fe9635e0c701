package jwt

import (
	"errors"
	"fmt"
	"slotwise/config"
	"slotwise/shared/timezone"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

const (
	tokenTypeBearer = "Bearer"
	defaultExpire   = 60
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken TokenType = "access"
)

// Claims binds a caller to the tenant it may act for. Role "admin" may act for
// every tenant.
type Claims struct {
	UserID   string    `json:"user_id"`
	TenantID string    `json:"tenant_id"`
	Role     string    `json:"role,omitempty"`
	Type     TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Token is a signed access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// JWT handles JWT operations
type JWT interface {
	GenerateAccessToken(userID, tenantID, role string) (*Token, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Service handles JWT operations
type Service struct {
	config *config.Config
	clock  timezone.Clock
}

// New creates a new JWT service
func New(cfg *config.Config, clock timezone.Clock) JWT {
	return &Service{
		config: cfg,
		clock:  clock,
	}
}

func (s *Service) expireMin() int {
	if s.config.JWT.AccessExpireMin <= 0 {
		return defaultExpire
	}

	return s.config.JWT.AccessExpireMin
}

// GenerateAccessToken signs an access token for userID acting on tenantID.
func (s *Service) GenerateAccessToken(userID, tenantID, role string) (*Token, error) {
	issuedAt := s.clock.Now()
	expiresAt := issuedAt.Add(time.Duration(s.expireMin()) * time.Minute)

	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		Type:     AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.expireMin() * 60),
	}, nil
}

// ValidateToken validates and parses an access token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.JWT.AccessSecret), nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != AccessToken || claims.UserID == "" || claims.TenantID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	token, ok := strings.CutPrefix(authHeader, tokenTypeBearer+" ")
	if !ok || token == "" {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	return token, nil
}
