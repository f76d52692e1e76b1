package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

const bootstrapTimeout = 30 * time.Second

// Base provides a shared foundation for domain repositories: a context-bound
// connection plus a one-time table bootstrap that every operation waits on.
type Base struct {
	db     *gorm.DB
	tables []any

	once  sync.Once
	ready chan struct{}
	err   error
}

// NewBase constructs a Base repository backed by the provided GORM connection.
// tables are created on first use when missing.
func NewBase(db *gorm.DB, tables ...any) *Base {
	return &Base{
		db:     db,
		tables: tables,
		ready:  make(chan struct{}),
	}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b *Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Init starts the bootstrap if needed and waits for it. Safe to call many times;
// the bootstrap itself runs once and its outcome, success or failure, is kept.
func (b *Base) Init(ctx context.Context) error {
	return b.Ready(ctx)
}

// Ready blocks until the bootstrap has finished or ctx is done.
func (b *Base) Ready(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b.once.Do(func() {
		go func() {
			// detached so one caller's cancellation cannot fail the bootstrap for everyone
			bootCtx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
			defer cancel()
			b.err = b.bootstrap(bootCtx)
			close(b.ready)
		}()
	})
	select {
	case <-b.ready:
		return b.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Conn waits for readiness and returns the context-bound connection.
func (b *Base) Conn(ctx context.Context) (*gorm.DB, error) {
	if err := b.Ready(ctx); err != nil {
		return nil, err
	}
	return b.DB(ctx), nil
}

// Bootstrapped reports whether the bootstrap finished successfully, without waiting.
func (b *Base) Bootstrapped() bool {
	select {
	case <-b.ready:
		return b.err == nil
	default:
		return false
	}
}

func (b *Base) bootstrap(ctx context.Context) error {
	if b.db == nil {
		return fmt.Errorf("database connection is required")
	}
	migrator := b.db.WithContext(ctx).Migrator()
	for _, table := range b.tables {
		if migrator.HasTable(table) {
			continue
		}
		if err := migrator.CreateTable(table); err != nil {
			return fmt.Errorf("creating table for %T: %w", table, err)
		}
	}
	return nil
}
