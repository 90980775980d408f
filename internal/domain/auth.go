// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the per-client authentication state carried by each request.
type Session struct {
	LoggedIn bool
	Username string
}

// Authenticated reports whether s belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.LoggedIn && s.Username != ""
}

// Clear resets every field of the session.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	*s = Session{}
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	// GetByUsername returns nil, nil when no user matches.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByEmail returns nil, nil when no user matches.
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *User) (*User, error)
}
