package domain

import (
	"context"
	"time"
)

// Song is a set of lyrics with a key/chord label, owned by Author.
type Song struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Chord     string    `json:"chord"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// SongRepository is the port for song persistence.
type SongRepository interface {
	ListSongs(ctx context.Context) ([]Song, error)
	// GetSong returns nil, nil when the id does not exist.
	GetSong(ctx context.Context, id int64) (*Song, error)
	ListSongsByAuthor(ctx context.Context, author string) ([]Song, error)
	AddSong(ctx context.Context, s *Song) (*Song, error)
	// UpdateSong overwrites title, body and chord. It reports false when no row matched.
	UpdateSong(ctx context.Context, s *Song) (bool, error)
	DeleteSong(ctx context.Context, id int64) (bool, error)
}
