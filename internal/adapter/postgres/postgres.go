// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"songbook/internal/config"
	"songbook/internal/dbx"
	"songbook/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB implements domain.UserRepository and domain.SongRepository.
type DB struct {
	gw *dbx.Gateway
}

var (
	_ domain.UserRepository = (*DB)(nil)
	_ domain.SongRepository = (*DB)(nil)
)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (*DB, error) {
	s, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(cfg.MaxOpenConns)
	s.SetMaxIdleConns(cfg.MaxIdleConns)
	s.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(pingCtx); err != nil {
		_ = s.Close()
		return nil, err
	}

	if err := migrate(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}
	return newDB(s), nil
}

func newDB(s *sql.DB) *DB {
	return &DB{gw: dbx.NewGateway(s, classify)}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.gw.DB().Close()
}

func migrate(ctx context.Context, s *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, s, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// classify maps lib/pq errors onto store codes.
func classify(err error) domain.StoreCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return domain.StoreUniqueViolation
		case pqErr.Code.Class() == "08", pqErr.Code.Class() == "57":
			return domain.StoreUnavailable
		}
		return domain.StoreFailure
	}
	if errors.Is(err, driver.ErrBadConn) {
		return domain.StoreUnavailable
	}
	return domain.StoreFailure
}
