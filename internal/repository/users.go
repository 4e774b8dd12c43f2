package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/yelpcamp/internal/models"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// UsersRepository persists registered accounts.
type UsersRepository struct {
	server *server.Server
}

func NewUsersRepository(s *server.Server) *UsersRepository {
	return &UsersRepository{server: s}
}

// Create inserts a new account. Duplicate email or username surfaces as
// a unique violation on users_email_key / users_username_key.
func (r *UsersRepository) Create(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, password_hash, created_at
	`

	var user models.User
	err := r.server.DB.Pool.QueryRow(ctx, query, email, username, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	return &user, nil
}

// GetByUsername fetches an account for credential verification.
func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	err := r.server.DB.Pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:users: %w", err)
		}
		return nil, errors.Wrap(err, "failed to get user by username")
	}

	return &user, nil
}

// GetByID fetches an account by primary key.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.server.DB.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:users: %w", err)
		}
		return nil, errors.Wrap(err, "failed to get user by id")
	}

	return &user, nil
}
