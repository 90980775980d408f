package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"songbook/internal/app"
	"songbook/internal/config"
)

const stateCookie = "oauth_state"

// OIDC holds the OpenID Connect client used for single sign-on.
type OIDC struct {
	OAuth2   oauth2.Config
	Verifier *oidc.IDTokenVerifier
}

// NewOIDC discovers the issuer and builds the client.
func NewOIDC(ctx context.Context, cfg config.SSOConfig) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return &OIDC{
		OAuth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		Verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if s.sso == nil {
		s.renderNotFound(w, r)
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.sso.OAuth2.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if s.sso == nil {
		s.renderNotFound(w, r)
		return
	}

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, MaxAge: -1, Path: "/"})

	token, err := s.sso.OAuth2.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.renderServerError(w, r, fmt.Errorf("exchange token: %w", err))
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		s.renderServerError(w, r, errors.New("no id_token in token response"))
		return
	}
	idToken, err := s.sso.Verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		s.renderServerError(w, r, fmt.Errorf("verify id token: %w", err))
		return
	}

	// Only a provider-verified email identifies the local account.
	var claims struct {
		Email         string `json:"email"`
		EmailVerified any    `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		s.renderServerError(w, r, fmt.Errorf("parse claims: %w", err))
		return
	}
	verified := claims.EmailVerified == true || claims.EmailVerified == "true"

	sess, err := s.auth.LoginByEmail(r.Context(), claims.Email, verified)
	switch {
	case errors.Is(err, app.ErrEmailUnverified):
		s.metrics.logins.WithLabelValues("sso_unverified").Inc()
		s.flashRedirect(w, r, "danger", "Your identity provider did not confirm an email address.", "/login")
		return
	case errors.Is(err, app.ErrUserNotFound):
		s.metrics.logins.WithLabelValues("sso_unknown").Inc()
		s.flashRedirect(w, r, "danger", "No songbook account matches this identity. Please register first.", "/login")
		return
	case err != nil:
		s.renderServerError(w, r, err)
		return
	}
	if err := s.cookies.writeSession(w, sess); err != nil {
		s.renderServerError(w, r, err)
		return
	}
	s.metrics.logins.WithLabelValues("sso_success").Inc()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
