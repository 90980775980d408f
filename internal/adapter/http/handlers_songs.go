package adapthttp

import (
	"errors"
	"fmt"
	"net/http"

	"songbook/internal/app"
)

var songFields = []string{"title", "body", "chord"}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.ListAll(r.Context())
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "home", view{Songs: songs})
}

func (s *Server) handleSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		s.renderNotFound(w, r)
		return
	}
	song, err := s.songs.Get(r.Context(), id)
	if errors.Is(err, app.ErrSongNotFound) {
		s.renderNotFound(w, r)
		return
	}
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "song", view{Title: song.Title, Song: song})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.ListByAuthor(r.Context(), sessionFrom(r).Username)
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", view{Title: "Dashboard", Songs: songs})
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	v := view{Title: "Add song", Action: "/add_song"}
	if r.Method != http.MethodPost {
		s.render(w, r, http.StatusOK, "song_form", v)
		return
	}

	v.Form = formValues(r, songFields...)
	_, err := s.songs.Create(r.Context(), sessionFrom(r).Username, songInput(v.Form))
	var ve *app.ValidationError
	switch {
	case err == nil:
		s.flashRedirect(w, r, "success", "Song created", "/dashboard")
	case errors.As(err, &ve):
		v.Errors = ve.Fields
		s.render(w, r, http.StatusUnprocessableEntity, "song_form", v)
	default:
		s.renderServerError(w, r, err)
	}
}

func (s *Server) handleEditSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		s.renderNotFound(w, r)
		return
	}
	v := view{Title: "Edit song", Action: fmt.Sprintf("/edit_song/%d", id)}

	if r.Method != http.MethodPost {
		song, err := s.songs.Get(r.Context(), id)
		if errors.Is(err, app.ErrSongNotFound) {
			s.renderNotFound(w, r)
			return
		}
		if err != nil {
			s.renderServerError(w, r, err)
			return
		}
		v.Form = map[string]string{"title": song.Title, "body": song.Body, "chord": song.Chord}
		s.render(w, r, http.StatusOK, "song_form", v)
		return
	}

	v.Form = formValues(r, songFields...)
	_, err := s.songs.Update(r.Context(), sessionFrom(r).Username, id, songInput(v.Form))
	var ve *app.ValidationError
	switch {
	case err == nil:
		s.flashRedirect(w, r, "success", "Song updated", "/dashboard")
	case errors.As(err, &ve):
		v.Errors = ve.Fields
		s.render(w, r, http.StatusUnprocessableEntity, "song_form", v)
	case errors.Is(err, app.ErrSongNotFound):
		s.renderNotFound(w, r)
	case errors.Is(err, app.ErrNotAuthor):
		s.flashRedirect(w, r, "danger", "You can only edit your own songs.", "/dashboard")
	default:
		s.renderServerError(w, r, err)
	}
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(r)
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	err := s.songs.Delete(r.Context(), sessionFrom(r).Username, id)
	switch {
	case err == nil:
		s.flashRedirect(w, r, "success", "Song deleted", "/dashboard")
	case errors.Is(err, app.ErrNotAuthor):
		s.flashRedirect(w, r, "danger", "You can only delete your own songs.", "/dashboard")
	default:
		s.renderServerError(w, r, err)
	}
}

func songInput(form map[string]string) app.SongInput {
	return app.SongInput{Title: form["title"], Body: form["body"], Chord: form["chord"]}
}
