package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mahmoud22020/Pvdmenus/internal/auth"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
	"github.com/mahmoud22020/Pvdmenus/pkg/middleware"
)

// AuthService logs admin users in and seeds the first administrator.
type AuthService struct {
	users  domain.UserRepository
	jwt    *auth.JWTManager
	hash   func(string) (string, error)
	now    func() time.Time
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users domain.UserRepository, jwt *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		jwt:    jwt,
		hash:   auth.HashPassword,
		now:    time.Now,
		logger: logger,
	}
}

// LoginResult is a signed token plus the user it was issued to.
type LoginResult struct {
	Token string            `json:"token"`
	User  *domain.AdminUser `json:"user"`
}

// Login checks the credentials and issues an access token. Unknown users,
// inactive users and wrong passwords all yield the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	invalid := apperrors.Unauthorized("invalid username or password")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !u.IsActive {
		return nil, invalid
	}

	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "failed login", slog.String("username", username))
		return nil, invalid
	}

	token, err := s.jwt.Generate(u)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		s.logger.ErrorContext(ctx, "failed to record last login",
			slog.Int64("user_id", u.ID),
			slog.String("error", err.Error()),
		)
	} else {
		u.LastLogin = &now
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", u.ID))
	return &LoginResult{Token: token, User: u}, nil
}

// EnsureAdmin creates the administrator account with access to every venue
// unless a user with that name exists. An empty password skips seeding.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, fullName string) error {
	if password == "" {
		return nil
	}
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	venues := make([]string, 0, len(domain.Venues()))
	for _, v := range domain.Venues() {
		venues = append(venues, v.String())
	}

	u := &domain.AdminUser{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         middleware.RoleAdmin,
		Venues:       venues,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin user seeded", slog.String("username", username))
	return nil
}
