// Package gormstore implements store.Store with GORM. Production runs
// against Postgres (a Supabase connection string works as is).
package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/schoolsynth/schoolsynth/internal/store"
)

// Store writes rows through a GORM connection.
type Store struct {
	db *gorm.DB
}

// Options configures a Store.
type Options struct {
	// AutoMigrate creates the school tables if they are missing.
	AutoMigrate bool
	// LogLevel is GORM's own SQL logging level.
	LogLevel logger.LogLevel
}

// OpenPostgres connects to Postgres with the given DSN.
func OpenPostgres(ctx context.Context, dsn string, opts Options) (*Store, error) {
	dialector := postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
	s, err := Open(ctx, dialector, opts)
	if err != nil {
		return nil, err
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	return s, nil
}

// Open connects through any GORM dialector.
func Open(ctx context.Context, dialector gorm.Dialector, opts Options) (*Store, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", dialector.Name(), err)
	}

	s := &Store{db: db}
	if opts.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(schemaModels()...); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrating schema: %w", err)
		}
	}
	return s, nil
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, table string, rec store.Record) error {
	if err := store.ValidateRequest(table, nil, rec); err != nil {
		return err
	}
	if len(rec) == 0 {
		return fmt.Errorf("inserting into %s: empty record", table)
	}

	row := make(map[string]any, len(rec))
	for k, v := range rec {
		row[k] = v
	}
	if err := s.db.WithContext(ctx).Table(table).Create(row).Error; err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, table string, filter store.Filter, patch store.Record) (int64, error) {
	if err := store.ValidateRequest(table, nil, filter, patch); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("updating %s: empty patch", table)
	}

	q := s.db.WithContext(ctx).Table(table)
	if len(filter) == 0 {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		q = q.Where(map[string]any(filter))
	}

	res := q.Updates(map[string]any(patch))
	if res.Error != nil {
		return 0, fmt.Errorf("updating %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}

// Select implements store.Store.
func (s *Store) Select(ctx context.Context, table string, columns []string, filter store.Filter) ([]store.Record, error) {
	if err := store.ValidateRequest(table, columns, filter); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Table(table)
	if len(columns) > 0 {
		q = q.Select(columns)
	}
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}

	var rows []map[string]any
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}

	out := make([]store.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
