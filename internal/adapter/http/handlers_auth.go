// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"errors"
	"net/http"

	"songbook/internal/app"
)

const msgBadLogin = "Invalid username or password."

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "register", view{Title: "Register"})
		return
	}

	form := formValues(r, "name", "username", "email")
	in := app.RegisterInput{
		Name:     form["name"],
		Username: form["username"],
		Email:    form["email"],
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}

	_, err := s.register.Register(r.Context(), in)
	var ve *app.ValidationError
	switch {
	case err == nil:
		s.metrics.registrations.WithLabelValues("success").Inc()
		s.flashRedirect(w, r, "success", "Registration successful, you can log in.", "/login")
	case errors.As(err, &ve):
		s.metrics.registrations.WithLabelValues("invalid").Inc()
		s.render(w, r, http.StatusUnprocessableEntity, "register", view{Title: "Register", Form: form, Errors: ve.Fields})
	case errors.Is(err, app.ErrEmailTaken):
		s.metrics.registrations.WithLabelValues("taken").Inc()
		s.flashRedirect(w, r, "danger", "This email address is already in use.", "/register")
	case errors.Is(err, app.ErrUsernameTaken):
		s.metrics.registrations.WithLabelValues("taken").Inc()
		s.flashRedirect(w, r, "danger", "This username is already in use.", "/register")
	case errors.Is(err, app.ErrRegistrationConflict):
		s.metrics.registrations.WithLabelValues("conflict").Inc()
		s.flashRedirect(w, r, "danger", "That username or email was just taken, please choose another.", "/register")
	default:
		s.renderServerError(w, r, err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "login", view{Title: "Log in"})
		return
	}

	form := formValues(r, "username")
	sess, err := s.auth.Login(r.Context(), form["username"], r.PostFormValue("password"))
	switch {
	case errors.Is(err, app.ErrUserNotFound), errors.Is(err, app.ErrInvalidCredentials):
		s.metrics.logins.WithLabelValues("failure").Inc()
		s.render(w, r, http.StatusUnauthorized, "login", view{Title: "Log in", Form: form, Error: msgBadLogin})
		return
	case err != nil:
		s.renderServerError(w, r, err)
		return
	}

	if err := s.cookies.writeSession(w, sess); err != nil {
		s.renderServerError(w, r, err)
		return
	}
	s.metrics.logins.WithLabelValues("success").Inc()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.auth.Logout(sess)
	_ = s.cookies.writeSession(w, sess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
