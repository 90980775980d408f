package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"songbook/internal/domain"
)

const (
	sessionCookie = "session"
	flashCookie   = "flash"

	sessionSubject = "session"
	flashSubject   = "flash"
	flashMaxAge    = 5 * time.Minute
)

type sessionClaims struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type flashClaims struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	jwt.RegisteredClaims
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// cookieCodec signs and verifies the session and flash cookies as HS256 JWTs.
type cookieCodec struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

func newCookieCodec(secret string, maxAge time.Duration, secure bool) *cookieCodec {
	return &cookieCodec{secret: []byte(secret), maxAge: maxAge, secure: secure, now: time.Now}
}

func (c *cookieCodec) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *cookieCodec) parse(raw, subject string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return err
	}
	if !tok.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// readSession returns the request's session. A missing, tampered or expired
// cookie yields an anonymous session.
func (c *cookieCodec) readSession(r *http.Request) *domain.Session {
	ck, err := r.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return &domain.Session{}
	}
	var claims sessionClaims
	if err := c.parse(ck.Value, sessionSubject, &claims); err != nil {
		return &domain.Session{}
	}
	return &domain.Session{LoggedIn: claims.LoggedIn, Username: claims.Username}
}

// writeSession stores sess in the cookie, or deletes the cookie when sess is
// not logged in.
func (c *cookieCodec) writeSession(w http.ResponseWriter, sess *domain.Session) error {
	if !sess.Authenticated() {
		c.clear(w, sessionCookie)
		return nil
	}
	now := c.now()
	raw, err := c.sign(sessionClaims{
		LoggedIn: sess.LoggedIn,
		Username: sess.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    raw,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.maxAge / time.Second),
	})
	return nil
}

func (c *cookieCodec) setFlash(w http.ResponseWriter, category, message string) error {
	now := c.now()
	raw, err := c.sign(flashClaims{
		Category: category,
		Message:  message,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   flashSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(flashMaxAge)),
		},
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    raw,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashMaxAge / time.Second),
	})
	return nil
}

// popFlash returns the pending flash, if any, and clears it.
func (c *cookieCodec) popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	ck, err := r.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.clear(w, flashCookie)

	var claims flashClaims
	if err := c.parse(ck.Value, flashSubject, &claims); err != nil {
		return nil
	}
	return &Flash{Category: claims.Category, Message: claims.Message}
}

func (c *cookieCodec) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type contextKey string

const sessionContextKey contextKey = "session"

func withSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// sessionFrom returns the session loaded by sessionMiddleware, or an anonymous one.
func sessionFrom(r *http.Request) *domain.Session {
	if sess, ok := r.Context().Value(sessionContextKey).(*domain.Session); ok && sess != nil {
		return sess
	}
	return &domain.Session{}
}
