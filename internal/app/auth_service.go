package app

import (
	"context"
	"sync"

	"songbook/internal/domain"
	"songbook/internal/logging"
)

// AuthService verifies credentials and manages session state.
type AuthService struct {
	users  domain.UserRepository
	hasher Hasher
	log    logging.Logger

	dummyOnce sync.Once
	dummy     string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher Hasher, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		log:    log.With("service", "auth"),
	}
}

// Login checks username and password and returns a logged-in session.
// Username matching is exact and case-sensitive.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "login", err)
	}
	if user == nil {
		// Keep timing comparable to a wrong password.
		s.hasher.Verify(password, s.dummyDigest())
		s.log.Info(ctx, "login failed", "username", username, "reason", "unknown user")
		return nil, ErrUserNotFound
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info(ctx, "login failed", "username", username, "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	s.log.Info(ctx, "login", "username", username)
	return &domain.Session{LoggedIn: true, Username: username}, nil
}

// LoginByEmail returns a logged-in session for the registered user owning
// email, as asserted by an identity provider. The provider must have verified
// the address. Unknown users are not created.
func (s *AuthService) LoginByEmail(ctx context.Context, email string, verified bool) (*domain.Session, error) {
	if email == "" || !verified {
		s.log.Warn(ctx, "sso login refused", "email", email, "verified", verified)
		return nil, ErrEmailUnverified
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "login by email", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	s.log.Info(ctx, "login", "username", user.Username, "method", "sso")
	return &domain.Session{LoggedIn: true, Username: user.Username}, nil
}

// Logout clears every field of session. It is safe to call repeatedly.
func (s *AuthService) Logout(session *domain.Session) {
	session.Clear()
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.hasher.Hash("songbook-timing-equalizer")
	})
	return s.dummy
}
