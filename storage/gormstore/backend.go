package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/taskauth/internal/conn"
	"github.com/MrEthical07/taskauth/store"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Backend groups the stores that share one lazily-opened database.
type Backend struct {
	db    *conn.Lazy[*gorm.DB]
	newID func() string
}

// New returns a Backend over an existing handle.
func New(db *conn.Lazy[*gorm.DB]) *Backend {
	return &Backend{db: db, newID: uuid.NewString}
}

// NewPostgres returns a Backend that opens dsn with the postgres driver on
// first use and migrates the schema.
func NewPostgres(dsn string) *Backend {
	return New(conn.NewLazy(Dialer(postgres.Open(dsn)), closeDB))
}

// NewSQLite returns a Backend over a SQLite database, for embedded use and
// tests. Use a shared-cache DSN such as "file:x?mode=memory&cache=shared"
// for an in-memory database.
func NewSQLite(dsn string) *Backend {
	return New(conn.NewLazy(Dialer(sqlite.Open(dsn)), closeDB))
}

// Dialer opens dialector, pings it within ctx, and migrates the schema.
// gorm's own ping on Open ignores ctx, so it is disabled.
func Dialer(dialector gorm.Dialector) conn.DialFunc[*gorm.DB] {
	return func(ctx context.Context) (*gorm.DB, error) {
		db, err := gorm.Open(dialector, &gorm.Config{
			Logger:               logger.Default.LogMode(logger.Warn),
			DisableAutomaticPing: true,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		if err := Migrate(db.WithContext(ctx)); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backend) handle(ctx context.Context) (*gorm.DB, error) {
	db, err := b.db.Get(ctx)
	if err != nil {
		return nil, store.Unavailable(err)
	}
	return db.WithContext(ctx), nil
}

// Sessions returns the session store.
func (b *Backend) Sessions() *Sessions { return &Sessions{backend: b} }

// Users returns the user store.
func (b *Backend) Users() *Users { return &Users{backend: b} }

// Tasks returns the task store.
func (b *Backend) Tasks() *Tasks { return &Tasks{backend: b} }

// Ping checks database reachability, opening it if needed.
func (b *Backend) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	db, err := b.handle(ctx)
	if err != nil {
		return time.Since(start), err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return time.Since(start), store.Unavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return time.Since(start), store.Unavailable(err)
	}
	return time.Since(start), nil
}

// Close releases the database if it was opened.
func (b *Backend) Close() error {
	return b.db.Close()
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return store.Unavailable(err)
}
