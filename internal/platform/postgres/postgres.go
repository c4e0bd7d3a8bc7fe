package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	pingTimeout  = 5 * time.Second
	maxOpenConns = 10
	maxIdleConns = 5
	connLifetime = 30 * time.Minute
)

// ErrNoDSN is returned by Connect when the stub has no database configured.
var ErrNoDSN = errors.New("storefront database DSN is empty")

// Connect opens the storefront database and pings it before returning.
// The pool is sized for the stub backend, which serves one client at a time.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrNoDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open storefront database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storefront database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping storefront database: %w", err)
	}
	return db, nil
}

// ConnectOptional returns a database for the catalog and order repositories,
// or nil when none is configured or reachable. The stub then keeps both in
// memory. The returned close function is always safe to call.
func ConnectOptional(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	noop := func() {}

	db, err := Connect(ctx, dsn)
	switch {
	case errors.Is(err, ErrNoDSN):
		logger.Info("no storefront database configured, serving catalog and orders from memory")
		return nil, noop
	case err != nil:
		logger.Warn("storefront database unavailable, serving catalog and orders from memory",
			slog.String("error", err.Error()))
		return nil, noop
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("storefront database handle unavailable, serving catalog and orders from memory",
			slog.String("error", err.Error()))
		return nil, noop
	}
	logger.Info("serving catalog and orders from postgres")
	return db, func() { _ = sqlDB.Close() }
}
