package postgres

import (
	"context"
	"fmt"

	"github.com/classhour/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type userRepo struct {
	s *Store
}

// Create persists a new user.
func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, role, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.s.db(ctx).QueryRow(ctx, query, u.Username, u.Email, u.Role, u.IsActive).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID fetches a user by id, returning nil when absent.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, role, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.s.db(ctx).QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &u, nil
}
