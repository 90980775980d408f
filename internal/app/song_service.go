package app

import (
	"context"

	"songbook/internal/domain"
	"songbook/internal/logging"
)

// SongInput is the submitted song form.
type SongInput struct {
	Title string
	Body  string
	Chord string
}

// Validate checks title, body and chord lengths.
func (in SongInput) Validate() error {
	var v validator
	v.length("title", in.Title, 1, 200)
	v.length("body", in.Body, 30, -1)
	v.length("chord", in.Chord, 1, 10)
	return v.err()
}

// SongService handles song reads and mutations.
type SongService struct {
	repo           domain.SongRepository
	log            logging.Logger
	ownerOnlyEdits bool
}

// SongOption configures a SongService.
type SongOption func(*SongService)

// WithOwnerOnlyEdits restricts Update and Delete to the song's author.
func WithOwnerOnlyEdits(on bool) SongOption {
	return func(s *SongService) { s.ownerOnlyEdits = on }
}

// NewSongService creates a new song service.
func NewSongService(repo domain.SongRepository, log logging.Logger, opts ...SongOption) *SongService {
	if log == nil {
		log = logging.Nop()
	}
	s := &SongService{repo: repo, log: log.With("service", "songs")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ListAll returns every song.
func (s *SongService) ListAll(ctx context.Context) ([]domain.Song, error) {
	songs, err := s.repo.ListSongs(ctx)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "list songs", err)
	}
	return songs, nil
}

// Get returns one song or ErrSongNotFound.
func (s *SongService) Get(ctx context.Context, id int64) (*domain.Song, error) {
	song, err := s.repo.GetSong(ctx, id)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "get song", err)
	}
	if song == nil {
		return nil, ErrSongNotFound
	}
	return song, nil
}

// ListByAuthor returns the author's songs ordered by title. An empty list is not an error.
func (s *SongService) ListByAuthor(ctx context.Context, author string) ([]domain.Song, error) {
	songs, err := s.repo.ListSongsByAuthor(ctx, author)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "list songs by author", err)
	}
	return songs, nil
}

// Create validates in and stores a new song owned by author.
func (s *SongService) Create(ctx context.Context, author string, in SongInput) (*domain.Song, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	song, err := s.repo.AddSong(ctx, &domain.Song{
		Title:  in.Title,
		Body:   in.Body,
		Chord:  in.Chord,
		Author: author,
	})
	if err != nil {
		return nil, storeFailure(ctx, s.log, "add song", err)
	}
	s.log.Info(ctx, "song created", "id", song.ID, "author", author)
	return song, nil
}

// Update overwrites title, body and chord of an existing song. The id and
// author never change.
func (s *SongService) Update(ctx context.Context, editor string, id int64, in SongInput) (*domain.Song, error) {
	song, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, editor, song, "update"); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	song.Title, song.Body, song.Chord = in.Title, in.Body, in.Chord
	ok, err := s.repo.UpdateSong(ctx, song)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "update song", err)
	}
	if !ok {
		return nil, ErrSongNotFound
	}
	s.log.Info(ctx, "song updated", "id", id, "editor", editor)
	return song, nil
}

// Delete removes a song. Deleting an id that does not exist succeeds.
func (s *SongService) Delete(ctx context.Context, editor string, id int64) error {
	song, err := s.repo.GetSong(ctx, id)
	if err != nil {
		return storeFailure(ctx, s.log, "get song", err)
	}
	if song == nil {
		return nil
	}
	if err := s.checkOwner(ctx, editor, song, "delete"); err != nil {
		return err
	}
	if _, err := s.repo.DeleteSong(ctx, id); err != nil {
		return storeFailure(ctx, s.log, "delete song", err)
	}
	s.log.Info(ctx, "song deleted", "id", id, "editor", editor)
	return nil
}

func (s *SongService) checkOwner(ctx context.Context, editor string, song *domain.Song, action string) error {
	if editor == song.Author {
		return nil
	}
	if s.ownerOnlyEdits {
		return ErrNotAuthor
	}
	s.log.Warn(ctx, "non-author edit", "action", action, "id", song.ID, "editor", editor, "author", song.Author)
	return nil
}
