package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"songbook/internal/domain"
)

// GetByUsername retrieves a user by exact username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx, "get user", "username", username)
}

// GetByEmail retrieves a user by exact email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.getUser(ctx, "get user by email", "email", email)
}

// getUser looks a user up by column, which must be a trusted identifier.
func (d *DB) getUser(ctx context.Context, op, column, value string) (*domain.User, error) {
	var u domain.User
	err := d.gw.QueryRow(ctx, op,
		[]any{&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt},
		"SELECT id, name, username, email, password, created_at FROM users WHERE "+column+" = $1",
		value,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByEmail reports whether any user has this email.
func (d *DB) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return d.exists(ctx, "user email exists", "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email)
}

// ExistsByUsername reports whether any user has this username.
func (d *DB) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return d.exists(ctx, "user username exists", "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username)
}

func (d *DB) exists(ctx context.Context, op, query string, arg string) (bool, error) {
	var ok bool
	if err := d.gw.QueryRow(ctx, op, []any{&ok}, query, arg); err != nil {
		return false, err
	}
	return ok, nil
}

// Create inserts a new user and returns it with the assigned id.
func (d *DB) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created := *u
	created.CreatedAt = time.Now().UTC()
	id, err := d.gw.InsertAndCommit(ctx, "create user",
		"INSERT INTO users (name, username, email, password, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		u.Name, u.Username, u.Email, u.PasswordHash, created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	created.ID = id
	return &created, nil
}
