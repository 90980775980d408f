package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"songbook/internal/domain"
)

const songColumns = "id, title, body, chord, author, created_at"

// ListSongs returns every song ordered by id.
func (d *DB) ListSongs(ctx context.Context) ([]domain.Song, error) {
	rows, err := d.gw.Query(ctx, "list songs", "SELECT "+songColumns+" FROM songs ORDER BY id")
	if err != nil {
		return nil, err
	}
	return scanSongs(rows)
}

// ListSongsByAuthor returns the author's songs ordered by title.
func (d *DB) ListSongsByAuthor(ctx context.Context, author string) ([]domain.Song, error) {
	rows, err := d.gw.Query(ctx, "list songs by author",
		"SELECT "+songColumns+" FROM songs WHERE author = $1 ORDER BY title", author)
	if err != nil {
		return nil, err
	}
	return scanSongs(rows)
}

// GetSong retrieves one song by id.
func (d *DB) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	var s domain.Song
	err := d.gw.QueryRow(ctx, "get song",
		[]any{&s.ID, &s.Title, &s.Body, &s.Chord, &s.Author, &s.CreatedAt},
		"SELECT "+songColumns+" FROM songs WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddSong inserts a song and returns it with the assigned id.
func (d *DB) AddSong(ctx context.Context, s *domain.Song) (*domain.Song, error) {
	created := *s
	created.CreatedAt = time.Now().UTC()
	id, err := d.gw.InsertAndCommit(ctx, "add song",
		"INSERT INTO songs (title, body, chord, author, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		s.Title, s.Body, s.Chord, s.Author, created.CreatedAt)
	if err != nil {
		return nil, err
	}
	created.ID = id
	return &created, nil
}

// UpdateSong overwrites title, body and chord of the song with s.ID.
func (d *DB) UpdateSong(ctx context.Context, s *domain.Song) (bool, error) {
	n, err := d.gw.ExecAndCommit(ctx, "update song",
		"UPDATE songs SET title = $1, body = $2, chord = $3 WHERE id = $4",
		s.Title, s.Body, s.Chord, s.ID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteSong removes a song by id.
func (d *DB) DeleteSong(ctx context.Context, id int64) (bool, error) {
	n, err := d.gw.ExecAndCommit(ctx, "delete song", "DELETE FROM songs WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanSongs(rows *sql.Rows) ([]domain.Song, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Song, 0)
	for rows.Next() {
		var s domain.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Body, &s.Chord, &s.Author, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
