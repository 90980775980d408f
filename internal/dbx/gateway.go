package dbx

import (
	"context"
	"database/sql"
	"errors"

	"songbook/internal/domain"
)

// Classifier maps a driver error to a StoreCode.
type Classifier func(err error) domain.StoreCode

// Gateway executes parameterized statements against a *sql.DB and reports
// failures as *domain.StoreError.
type Gateway struct {
	db       *sql.DB
	classify Classifier
}

// NewGateway wraps db. A nil classifier treats every error as StoreFailure.
func NewGateway(db *sql.DB, classify Classifier) *Gateway {
	if classify == nil {
		classify = func(error) domain.StoreCode { return domain.StoreFailure }
	}
	return &Gateway{db: db, classify: classify}
}

// DB returns the underlying pool.
func (g *Gateway) DB() *sql.DB { return g.db }

// Query runs a read statement. The caller must close the rows.
func (g *Gateway) Query(ctx context.Context, op, query string, args ...any) (*sql.Rows, error) {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, g.wrap(op, err)
	}
	return rows, nil
}

// QueryRow runs a single-row read and scans it into dest. It returns
// sql.ErrNoRows unwrapped so callers can treat absence as a normal outcome.
func (g *Gateway) QueryRow(ctx context.Context, op string, dest []any, query string, args ...any) error {
	err := g.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return g.wrap(op, err)
	}
	return nil
}

// ExecAndCommit runs a mutating statement in its own transaction and commits
// it before returning the number of affected rows.
func (g *Gateway) ExecAndCommit(ctx context.Context, op, query string, args ...any) (int64, error) {
	var affected int64
	err := WithTx(ctx, g.db, nil, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, g.wrap(op, err)
	}
	return affected, nil
}

// InsertAndCommit runs an INSERT ... RETURNING id statement in its own
// transaction and returns the new id after commit.
func (g *Gateway) InsertAndCommit(ctx context.Context, op, query string, args ...any) (int64, error) {
	var id int64
	err := WithTx(ctx, g.db, nil, func(ctx context.Context, tx DBTX) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, g.wrap(op, err)
	}
	return id, nil
}

func (g *Gateway) wrap(op string, err error) error {
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	code := domain.StoreFailure
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone):
		code = domain.StoreUnavailable
	default:
		code = g.classify(err)
	}
	return &domain.StoreError{Code: code, Op: op, Err: err}
}
