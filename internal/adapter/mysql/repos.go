package mysql

import (
	"context"

	"gorm.io/gorm"

	"songbook/internal/domain"
)

// GetByUsername retrieves a user by exact username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx, "get user", "username = ?", username)
}

// GetByEmail retrieves a user by email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.getUser(ctx, "get user by email", "email = ?", email)
}

func (d *DB) getUser(ctx context.Context, op, cond, arg string) (*domain.User, error) {
	var rows []userRow
	err := d.db.WithContext(ctx).Where(cond, arg).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, d.wrap(op, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain(), nil
}

// ExistsByEmail reports whether any user has this email.
func (d *DB) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return d.exists(ctx, "user email exists", "email = ?", email)
}

// ExistsByUsername reports whether any user has this username.
func (d *DB) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return d.exists(ctx, "user username exists", "username = ?", username)
}

func (d *DB) exists(ctx context.Context, op, cond, arg string) (bool, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&userRow{}).Where(cond, arg).Count(&n).Error; err != nil {
		return false, d.wrap(op, err)
	}
	return n > 0, nil
}

// Create inserts a new user in its own transaction.
func (d *DB) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := userRow{Name: u.Name, Username: u.Username, Email: u.Email, Password: u.PasswordHash}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, d.wrap("create user", err)
	}
	return row.toDomain(), nil
}

// ListSongs returns every song ordered by id.
func (d *DB) ListSongs(ctx context.Context) ([]domain.Song, error) {
	var rows []songRow
	if err := d.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, d.wrap("list songs", err)
	}
	return toSongs(rows), nil
}

// ListSongsByAuthor returns the author's songs ordered by title.
func (d *DB) ListSongsByAuthor(ctx context.Context, author string) ([]domain.Song, error) {
	var rows []songRow
	err := d.db.WithContext(ctx).Where("author = ?", author).Order("title").Find(&rows).Error
	if err != nil {
		return nil, d.wrap("list songs by author", err)
	}
	return toSongs(rows), nil
}

// GetSong retrieves one song by id.
func (d *DB) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	var rows []songRow
	if err := d.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, d.wrap("get song", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	s := rows[0].toDomain()
	return &s, nil
}

// AddSong inserts a song in its own transaction.
func (d *DB) AddSong(ctx context.Context, s *domain.Song) (*domain.Song, error) {
	row := songRow{Title: s.Title, Body: s.Body, Chord: s.Chord, Author: s.Author}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, d.wrap("add song", err)
	}
	created := row.toDomain()
	return &created, nil
}

// UpdateSong overwrites title, body and chord of the song with s.ID.
func (d *DB) UpdateSong(ctx context.Context, s *domain.Song) (bool, error) {
	var affected int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&songRow{}).Where("id = ?", s.ID).Updates(map[string]any{
			"title": s.Title,
			"body":  s.Body,
			"chord": s.Chord,
		})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, d.wrap("update song", err)
	}
	return affected > 0, nil
}

// DeleteSong removes a song by id.
func (d *DB) DeleteSong(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&songRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, d.wrap("delete song", err)
	}
	return affected > 0, nil
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt,
	}
}

func (r songRow) toDomain() domain.Song {
	return domain.Song{
		ID:        r.ID,
		Title:     r.Title,
		Body:      r.Body,
		Chord:     r.Chord,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
	}
}

func toSongs(rows []songRow) []domain.Song {
	out := make([]domain.Song, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
