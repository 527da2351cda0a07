package domain

import (
	"context"
	"time"
)

// AdminUser is a person allowed into the admin API.
type AdminUser struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	Venues       []string   `json:"venues"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserRepository persists admin users.
type UserRepository interface {
	Create(ctx context.Context, u *AdminUser) error
	GetByUsername(ctx context.Context, username string) (*AdminUser, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
