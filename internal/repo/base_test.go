package repo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	assert.Same(t, db, base.DB(nil))
}

func TestInitCreatesMissingTablesOnce(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db, &widget{})

	require.False(t, base.Bootstrapped())
	require.NoError(t, base.Init(context.Background()))
	require.True(t, db.Migrator().HasTable(&widget{}))
	require.True(t, base.Bootstrapped())

	// a second repository over an existing table finds it and leaves rows alone
	require.NoError(t, db.Create(&widget{Name: "kept"}).Error)
	again := NewBase(db, &widget{})
	require.NoError(t, again.Init(context.Background()))

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentCallersQueueBehindBootstrap(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db, &widget{})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := base.Conn(context.Background())
			if err != nil {
				errs <- err
				return
			}
			errs <- conn.Create(&widget{Name: "w"}).Error
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(10), count)
}

func TestFailedBootstrapIsSticky(t *testing.T) {
	base := NewBase(nil, &widget{})

	err := base.Init(context.Background())
	require.Error(t, err)

	_, connErr := base.Conn(context.Background())
	require.Error(t, connErr)
	assert.Equal(t, err, connErr)
	assert.False(t, base.Bootstrapped())
}

func TestReadyHonorsContextCancellation(t *testing.T) {
	base := &Base{ready: make(chan struct{})}
	base.once.Do(func() {}) // bootstrap never completes

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := base.Ready(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
