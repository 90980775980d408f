// Package mysql implements the domain repositories on MySQL through gorm.
package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"songbook/internal/config"
	"songbook/internal/domain"
	"songbook/internal/logging"
)

// DB implements domain.UserRepository and domain.SongRepository.
type DB struct {
	db *gorm.DB
}

var (
	_ domain.UserRepository = (*DB)(nil)
	_ domain.SongRepository = (*DB)(nil)
)

type userRow struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;not null"`
	Username  string    `gorm:"type:varchar(25) COLLATE utf8mb4_bin;not null;uniqueIndex"`
	Email     string    `gorm:"size:30;not null;uniqueIndex"`
	Password  string    `gorm:"size:100;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type songRow struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"size:200;not null;index:idx_songs_author_title,priority:2"`
	Body      string    `gorm:"type:text;not null"`
	Chord     string    `gorm:"size:10;not null"`
	Author    string    `gorm:"size:25;not null;index:idx_songs_author_title,priority:1"`
	CreatedAt time.Time `gorm:"not null"`
}

func (songRow) TableName() string { return "songs" }

// Open connects to MySQL, applies pool settings and migrates the schema.
// The DSN should carry parseTime=true.
func Open(ctx context.Context, cfg config.StoreConfig, log logging.Logger) (*DB, error) {
	d, err := open(mysql.Open(cfg.DSN), log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := d.db.WithContext(ctx).AutoMigrate(&userRow{}, &songRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, d.wrap("migrate", err)
	}
	return d, nil
}

func open(dialector gorm.Dialector, log logging.Logger) (*DB, error) {
	g, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 newGormLogger(log),
	})
	if err != nil {
		return nil, err
	}
	return &DB{db: g}, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	code := domain.StoreFailure
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code = domain.StoreUniqueViolation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn), errors.Is(err, gomysql.ErrInvalidConn):
		code = domain.StoreUnavailable
	}
	return &domain.StoreError{Code: code, Op: op, Err: err}
}
