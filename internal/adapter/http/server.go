package adapthttp

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"songbook/internal/app"
	"songbook/internal/logging"
)

// Options configures the HTTP adapter.
type Options struct {
	SessionSecret string
	SessionMaxAge time.Duration
	SecureCookie  bool

	Logger  logging.Logger
	Metrics *Metrics
	// SSO enables the OpenID Connect login routes when non-nil.
	SSO *OIDC
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	register *app.RegistrationService
	songs    *app.SongService

	cookies *cookieCodec
	log     logging.Logger
	metrics *Metrics
	sso     *OIDC
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, reg *app.RegistrationService, songs *app.SongService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.SessionMaxAge <= 0 {
		opts.SessionMaxAge = 24 * time.Hour
	}
	return &Server{
		auth:     auth,
		register: reg,
		songs:    songs,
		cookies:  newCookieCodec(opts.SessionSecret, opts.SessionMaxAge, opts.SecureCookie),
		log:      opts.Logger.With("component", "http"),
		metrics:  opts.Metrics,
		sso:      opts.SSO,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware, s.sessionMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/songs/{id}", s.handleSong).Methods(http.MethodGet)
	r.HandleFunc("/songs/{id}/", s.handleSong).Methods(http.MethodGet)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login/sso", s.handleSSOLogin).Methods(http.MethodGet)
	r.HandleFunc("/login/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	r.Handle("/logout", s.requireLogin(http.HandlerFunc(s.handleLogout))).Methods(http.MethodGet)
	r.Handle("/dashboard", s.requireLogin(http.HandlerFunc(s.handleDashboard))).Methods(http.MethodGet)
	r.Handle("/add_song", s.requireLogin(http.HandlerFunc(s.handleAddSong))).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/edit_song/{id}", s.requireLogin(http.HandlerFunc(s.handleEditSong))).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/delete_article/{id}", s.requireLogin(http.HandlerFunc(s.handleDeleteSong))).Methods(http.MethodPost)

	r.NotFoundHandler = s.sessionMiddleware(http.HandlerFunc(s.renderNotFound))

	return withNoCache(r)
}
