package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"songbook/internal/domain"
	"songbook/internal/logging"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByUsernameFn    func(ctx context.Context, username string) (*domain.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	getByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	createFn           func(ctx context.Context, u *domain.User) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	created := *u
	created.ID = 1
	return &created, nil
}

// countingHasher records Verify calls on top of a fast bcrypt hasher.
type countingHasher struct {
	*BcryptHasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifies++
	return h.BcryptHasher.Verify(plaintext, digest)
}

func newTestHasher() *countingHasher {
	return &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}
}

func userWithPassword(t *testing.T, username, password string) *domain.User {
	t.Helper()
	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: hash}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	user := userWithPassword(t, "jan01", "secret123")

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			if username != "jan01" {
				t.Errorf("expected lookup of jan01, got %s", username)
			}
			return user, nil
		},
	}

	svc := NewAuthService(users, newTestHasher(), logging.Nop())
	sess, err := svc.Login(ctx, "jan01", "secret123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !sess.LoggedIn || sess.Username != "jan01" {
		t.Errorf("unexpected session %+v", sess)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := userWithPassword(t, "jan01", "secret123")
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return user, nil
		},
	}

	svc := NewAuthService(users, newTestHasher(), logging.Nop())
	sess, err := svc.Login(context.Background(), "jan01", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if sess != nil {
		t.Error("expected no session")
	}
}

func TestAuthService_Login_UnknownUserStillVerifies(t *testing.T) {
	hasher := newTestHasher()
	svc := NewAuthService(&mockUserRepo{}, hasher, logging.Nop())

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if hasher.verifies != 1 {
		t.Errorf("expected one dummy verify, got %d", hasher.verifies)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, &domain.StoreError{Code: domain.StoreUnavailable, Op: "get user", Err: errors.New("down")}
		},
	}

	svc := NewAuthService(users, newTestHasher(), logging.Nop())
	_, err := svc.Login(context.Background(), "jan01", "x")
	if !errors.Is(err, ErrStoreFailure) {
		t.Errorf("expected ErrStoreFailure, got %v", err)
	}
}

func TestAuthService_LoginByEmail(t *testing.T) {
	lookups := 0
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			lookups++
			if email == "jan@x.io" {
				return &domain.User{ID: 1, Username: "jan01", Email: "jan@x.io"}, nil
			}
			return nil, nil
		},
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			t.Fatal("SSO login must not look users up by username")
			return nil, nil
		},
	}
	svc := NewAuthService(users, newTestHasher(), logging.Nop())
	ctx := context.Background()

	sess, err := svc.LoginByEmail(ctx, "jan@x.io", true)
	if err != nil || !sess.Authenticated() || sess.Username != "jan01" {
		t.Fatalf("expected session for jan01, got %+v, %v", sess, err)
	}

	if _, err := svc.LoginByEmail(ctx, "new@x.io", true); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	lookups = 0
	if _, err := svc.LoginByEmail(ctx, "jan@x.io", false); !errors.Is(err, ErrEmailUnverified) {
		t.Errorf("expected ErrEmailUnverified, got %v", err)
	}
	if _, err := svc.LoginByEmail(ctx, "", true); !errors.Is(err, ErrEmailUnverified) {
		t.Errorf("expected ErrEmailUnverified for empty email, got %v", err)
	}
	if lookups != 0 {
		t.Errorf("unverified identities must not reach the store, got %d lookups", lookups)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newTestHasher(), logging.Nop())
	sess := &domain.Session{LoggedIn: true, Username: "jan01"}

	svc.Logout(sess)
	if sess.LoggedIn || sess.Username != "" {
		t.Errorf("expected cleared session, got %+v", sess)
	}

	// Idempotent and nil-safe.
	svc.Logout(sess)
	svc.Logout(nil)
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name    string
		session *domain.Session
		wantRun bool
	}{
		{"nil session", nil, false},
		{"anonymous", &domain.Session{}, false},
		{"logged in", &domain.Session{LoggedIn: true, Username: "jan01"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			err := Guard(tt.session, func() error {
				ran = true
				return nil
			})
			if ran != tt.wantRun {
				t.Errorf("expected ran=%v, got %v", tt.wantRun, ran)
			}
			if !tt.wantRun && !errors.Is(err, ErrLoginRequired) {
				t.Errorf("expected ErrLoginRequired, got %v", err)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	d1, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d2, _ := h.Hash("secret")
	if d1 == d2 {
		t.Error("expected distinct salts")
	}
	if !h.Verify("secret", d1) {
		t.Error("expected match")
	}
	if h.Verify("Secret", d1) {
		t.Error("expected mismatch")
	}
	if h.Verify("secret", "not-a-digest") {
		t.Error("malformed digest must not match")
	}

	long := strings.Repeat("p", 80)
	d3, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash of 80-byte password: %v", err)
	}
	if !h.Verify(long, d3) {
		t.Error("expected 80-byte password to match its digest")
	}
	if h.Verify(strings.Repeat("p", 79)+"q", d3) {
		t.Error("bytes past 72 must still be compared")
	}
	if h.Verify(strings.Repeat("p", 72), d3) {
		t.Error("a 72-byte prefix must not match")
	}

	if got := NewBcryptHasher(0).Cost; got != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", got)
	}
}
