// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"songbook/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu    sync.Mutex
	users []domain.User
	songs []domain.Song

	userIDCounter int64
	songIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SongRepository = (*DB)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// ExistsByEmail reports whether a user with this email exists.
func (db *DB) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByUsername reports whether a user with this username exists.
func (db *DB) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Create creates a new user. Username and email are unique.
func (db *DB) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, &domain.StoreError{
				Code: domain.StoreUniqueViolation,
				Op:   "create user",
				Err:  errors.New("user already exists"),
			}
		}
	}

	db.userIDCounter++
	created := *u
	created.ID = db.userIDCounter
	created.CreatedAt = time.Now().UTC()
	db.users = append(db.users, created)
	return &created, nil
}

// --- SongRepository ---

// ListSongs returns every song ordered by id.
func (db *DB) ListSongs(ctx context.Context) ([]domain.Song, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Song, len(db.songs))
	copy(result, db.songs)
	return result, nil
}

// ListSongsByAuthor returns the author's songs ordered by title, ignoring
// case, then byte order on ties.
func (db *DB) ListSongsByAuthor(ctx context.Context, author string) ([]domain.Song, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Song, 0)
	for _, s := range db.songs {
		if s.Author == author {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return titleLess(result[i].Title, result[j].Title)
	})
	return result, nil
}

func titleLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// GetSong retrieves a song by id.
func (db *DB) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.songIndex(id); i >= 0 {
		s := db.songs[i]
		return &s, nil
	}
	return nil, nil
}

// AddSong stores a new song and assigns its id.
func (db *DB) AddSong(ctx context.Context, s *domain.Song) (*domain.Song, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.songIDCounter++
	created := *s
	created.ID = db.songIDCounter
	created.CreatedAt = time.Now().UTC()
	db.songs = append(db.songs, created)
	return &created, nil
}

// UpdateSong overwrites title, body and chord. Author and id are kept.
func (db *DB) UpdateSong(ctx context.Context, s *domain.Song) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.songIndex(s.ID)
	if i < 0 {
		return false, nil
	}
	db.songs[i].Title = s.Title
	db.songs[i].Body = s.Body
	db.songs[i].Chord = s.Chord
	return true, nil
}

// DeleteSong removes a song by id.
func (db *DB) DeleteSong(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.songIndex(id)
	if i < 0 {
		return false, nil
	}
	db.songs = append(db.songs[:i], db.songs[i+1:]...)
	return true, nil
}

// songIndex must be called with mu held.
func (db *DB) songIndex(id int64) int {
	for i, s := range db.songs {
		if s.ID == id {
			return i
		}
	}
	return -1
}
