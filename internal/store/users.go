package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spookystock/spookystock/internal/model"
)

// CreateUser creates a new account. The new user's id becomes the owner id
// for everything it catalogs. Duplicate active usernames are a conflict.
func CreateUser(ctx context.Context, db *sql.DB, username, passwordHash string) (*model.User, error) {
	if username == "" {
		return nil, model.NewInvalid("user", "username", "username is required")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, model.NewConflict("user", 0, "username already taken")
		}
		return nil, model.NewStorage(fmt.Errorf("creating user: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting user id: %w", err))
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting user: %w", err))
	}
	return u, nil
}

// GetUserByUsername returns a user by username (including soft-deleted, so
// auth can distinguish a retired account from an unknown one).
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, deleted_at
		 FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting user by username: %w", err))
	}
	return u, nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return model.NewStorage(fmt.Errorf("updating user password: %w", err))
	}
	return nil
}
