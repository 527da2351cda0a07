package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/middleware"
)

const issuer = "pvd-menus"

// Claims represents the JWT claims for an admin access token.
type Claims struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Venues   []string `json:"venues,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles token generation and validation.
type JWTManager struct {
	secret       []byte
	accessExpiry time.Duration
	now          func() time.Time
}

// NewJWTManager creates a JWT manager with the given secret and token lifetime.
func NewJWTManager(secret string, accessExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
		now:          time.Now,
	}
}

// Generate creates a signed access token for u.
func (m *JWTManager) Generate(u *domain.AdminUser) (string, error) {
	now := m.now().UTC()
	claims := &Claims{
		Username: u.Username,
		Role:     u.Role,
		Venues:   u.Venues,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates an access token, returning the claims.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}
	return claims, nil
}

// Middleware adapts Validate to the HTTP auth middleware.
func (m *JWTManager) Middleware(token string) (*middleware.Claims, error) {
	c, err := m.Validate(token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		UserID:   c.Subject,
		Username: c.Username,
		Role:     c.Role,
		Venues:   c.Venues,
	}, nil
}
