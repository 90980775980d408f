package adapthttp

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"songbook/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = parsePages("home", "song", "register", "login", "dashboard", "song_form", "error")

func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return out
}

// view is the data passed to every page.
type view struct {
	Title      string
	Session    *domain.Session
	Flash      *Flash
	SSOEnabled bool

	Songs  []domain.Song
	Song   *domain.Song
	Action string
	Form   map[string]string
	Errors map[string]string
	Error  string
}

// render executes page into a buffer, then writes it with status. The pending
// flash is consumed.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	v.Session = sessionFrom(r)
	v.Flash = s.cookies.popFlash(w, r)
	v.SSOEnabled = s.sso != nil

	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", v); err != nil {
		s.log.Error(r.Context(), "render failed", "page", page, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error", view{
		Title: "Not found",
		Error: "The page you are looking for does not exist.",
	})
}

func (s *Server) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	s.render(w, r, http.StatusInternalServerError, "error", view{
		Title: "Something went wrong",
		Error: "Please try again later.",
	})
}

// flash queues a message for the next page and redirects there.
func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, category, message, to string) {
	if err := s.cookies.setFlash(w, category, message); err != nil {
		s.log.Warn(r.Context(), "set flash", "err", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
