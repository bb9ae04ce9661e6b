// Package sqlstore is the SQL implementation of the ticketing store, backed by gorm and SQLite.
//
// Every guarded write runs in a transaction: the guard is part of the UPDATE statement and the
// affected row count decides the outcome, so a lost race never writes.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/warden/pkg/clock"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const dalName = "sql_store"

// Store is the SQL implementation of dataaccess.Store.
type Store struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *gorm.DB

	// clock is the source of timestamps.
	clock clock.Clock
}

var _ dataaccess.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(clk clock.Clock) Option {
	return func(s *Store) {
		s.clock = clk
	}
}

// Open opens the SQLite database at dsn and migrates the schema. Use ":memory:" for a
// throwaway database.
func Open(dsn string, l *slog.Logger, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("dsn is required")
	}

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql db: %w", err)
	}

	// SQLite allows a single writer and every ":memory:" connection is its own database.
	sqlDB.SetMaxOpenConns(1)

	return New(db, l, opts...)
}

// New creates a store on an open database and migrates the schema.
func New(db *gorm.DB, l *slog.Logger, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if l == nil {
		l = slog.Default()
	}

	s := &Store{
		l:     l.With(slog.String(logging.KeyDal, dalName)),
		db:    db,
		clock: clock.Real(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := db.AutoMigrate(models()...); err != nil {
		return nil, fmt.Errorf("error migrating schema: %w", err)
	}
	return s, nil
}

// Ping checks the connection to the database.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql db: %w", err)
	}
	return sqlDB.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
