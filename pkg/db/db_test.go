package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	_ "liyu1981.xyz/w1-temperature-service/pkg/testing"
)

var fastRetry = RetryPolicy{
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
	MaxElapsedTime:  time.Second,
	MaxRetries:      3,
}

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	var tables = []string{"sensors", "temperature_samples", "alerts"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestIsolatedMemoryDatabases(t *testing.T) {
	common.SetTestLoggerNop()

	first, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	second, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	require.NoError(t, first.Conn.Create(&models.Sensor{Name: "a", Unit: models.UnitCelsius}).Error)

	var count int64
	require.NoError(t, second.Conn.Model(&models.Sensor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUnitCheckConstraint(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	err = instance.Conn.Create(&models.Sensor{Name: "bad", Unit: "K"}).Error
	assert.Error(t, err)
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance := GetInstance(UseMemorySqliteDialector())
			instances <- instance
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestFileDatabase(t *testing.T) {
	common.SetTestLoggerNop()

	testPath := filepath.Join(t.TempDir(), "test.db")

	instance, err := Open(UseSqliteDialector(testPath))
	require.NoError(t, err)
	require.NotNil(t, instance.Conn)

	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Errorf("Expected database file to be created at %s", testPath)
	}
	assert.True(t, tableExists(instance.Conn, "sensors"))
}

func TestDoWaitsOutAnotherWriter(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()

	testPath := filepath.Join(t.TempDir(), "shared.db")
	holder, err := Open(UseSqliteDialector(testPath))
	require.NoError(t, err)

	// a second handle on the same file that gives up on a lock at once, so
	// the busy error reaches Do instead of being absorbed by sqlite
	writer, err := Open(sqlite.Open(testPath + "?_busy_timeout=0"))
	require.NoError(t, err)
	writer = writer.WithRetryPolicy(RetryPolicy{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     40 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
		MaxRetries:      100,
	})

	sqlDB, err := holder.Conn.DB()
	require.NoError(t, err)
	lockConn, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer lockConn.Close()
	_, err = lockConn.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)

	var (
		mu           sync.Mutex
		calls        int
		sawBusy      bool
		writerResult = make(chan error, 1)
	)
	go func() {
		writerResult <- writer.Do(ctx, "register sensor", func(tx *gorm.DB) error {
			err := tx.Create(&models.Sensor{Name: "shared", Folder: "28-shared", Unit: models.UnitCelsius}).Error
			mu.Lock()
			calls++
			if IsBusy(err) {
				sawBusy = true
			}
			mu.Unlock()
			return err
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sawBusy
	}, 2*time.Second, 5*time.Millisecond)

	_, err = lockConn.ExecContext(ctx, "COMMIT")
	require.NoError(t, err)

	require.NoError(t, <-writerResult)
	mu.Lock()
	assert.Greater(t, calls, 1)
	mu.Unlock()

	var count int64
	require.NoError(t, holder.Conn.Model(&models.Sensor{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIsBusy(t *testing.T) {
	assert.True(t, IsBusy(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, IsBusy(fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrLocked})))
	assert.False(t, IsBusy(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, IsBusy(errors.New("database is on fire")))
}

func TestDoRetriesBusy(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	instance = instance.WithRetryPolicy(fastRetry)

	calls := 0
	err = instance.Do(context.Background(), "flaky", func(tx *gorm.DB) error {
		calls++
		if calls < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	instance = instance.WithRetryPolicy(fastRetry)

	calls := 0
	err = instance.Do(context.Background(), "always busy", func(tx *gorm.DB) error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrBusy}
	})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "always busy", perr.Op)
	assert.Equal(t, int(fastRetry.MaxRetries)+1, calls)
	assert.Equal(t, calls, perr.Attempts)
	assert.True(t, IsBusy(err))
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	instance = instance.WithRetryPolicy(fastRetry)

	calls := 0
	err = instance.Do(context.Background(), "broken", func(tx *gorm.DB) error {
		calls++
		return errors.New("no such table")
	})
	var perr *PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, calls)

	err = instance.Do(context.Background(), "missing", func(tx *gorm.DB) error {
		var s models.Sensor
		return tx.First(&s, 4242).Error
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
