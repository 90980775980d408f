// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"

	"songbook/internal/logging"
)

var (
	// ErrInvalidCredentials indicates that the password did not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailUnverified is returned for SSO identities without a verified email.
	ErrEmailUnverified = errors.New("identity has no verified email")
	// ErrLoginRequired is returned by Guard for anonymous sessions.
	ErrLoginRequired = errors.New("login required")

	ErrEmailTaken           = errors.New("email already in use")
	ErrUsernameTaken        = errors.New("username already in use")
	ErrRegistrationConflict = errors.New("username or email registered concurrently")

	// ErrSongNotFound indicates that no song has the requested id.
	ErrSongNotFound = errors.New("song not found")
	// ErrNotAuthor is returned when owner-only edits are enabled and the
	// editor is not the song's author.
	ErrNotAuthor = errors.New("only the author can change this song")

	// ErrStoreFailure wraps every storage failure surfaced by a service.
	ErrStoreFailure = errors.New("storage failure")
)

// storeFailure logs err and returns it wrapped in ErrStoreFailure.
func storeFailure(ctx context.Context, log logging.Logger, op string, err error) error {
	log.Error(ctx, "store failure", "op", op, "err", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}
