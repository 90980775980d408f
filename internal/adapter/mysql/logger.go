package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"songbook/internal/logging"
)

const slowQuery = 200 * time.Millisecond

// gormLogger routes gorm's statement log into logging.Logger.
type gormLogger struct {
	log   logging.Logger
	level gormlogger.LogLevel
}

func newGormLogger(log logging.Logger) gormlogger.Interface {
	if log == nil {
		log = logging.Nop()
	}
	return &gormLogger{log: log.With("component", "gorm"), level: gormlogger.Warn}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		query, rows := fc()
		l.log.Error(ctx, "query failed", "sql", query, "rows", rows, "elapsed", elapsed, "err", err)
	case elapsed > slowQuery && l.level >= gormlogger.Warn:
		query, rows := fc()
		l.log.Warn(ctx, "slow query", "sql", query, "rows", rows, "elapsed", elapsed)
	case l.level >= gormlogger.Info:
		query, rows := fc()
		l.log.Debug(ctx, "query", "sql", query, "rows", rows, "elapsed", elapsed)
	}
}
