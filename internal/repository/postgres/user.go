package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// UserRepository implements domain.UserRepository.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a PostgreSQL-backed admin user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts u and fills in its id and creation time.
func (r *UserRepository) Create(ctx context.Context, u *domain.AdminUser) (err error) {
	query := `
		INSERT INTO admin_users (username, password_hash, full_name, role, venues, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "CreateAdminUser", query)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.FullName, u.Role, u.Venues, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("admin user", "username", u.Username)
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

// GetByUsername looks a user up by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (u *domain.AdminUser, err error) {
	query := `
		SELECT id, username, password_hash, full_name, role, venues, is_active, last_login, created_at
		FROM admin_users
		WHERE username = $1`

	ctx, end := database.TraceQuery(ctx, "GetAdminUser", query)
	defer func() { end(err) }()

	u = &domain.AdminUser{}
	err = r.pool.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role,
		&u.Venues, &u.IsActive, &u.LastLogin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("admin user", username)
		}
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return u, nil
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) (err error) {
	query := `UPDATE admin_users SET last_login = $1 WHERE id = $2`

	ctx, end := database.TraceQuery(ctx, "TouchLastLogin", query)
	defer func() { end(err) }()

	if _, err = r.pool.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
