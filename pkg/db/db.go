package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

// busyTimeoutMs is handed to sqlite itself; the retry loop in Do covers
// whatever still comes back busy after that.
const busyTimeoutMs = 2000

type DB struct {
	Conn  *gorm.DB
	retry RetryPolicy
}

var (
	instance *DB
	once     sync.Once
)

// GetInstance returns the process wide connection, opening it on first use.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		if instance, err = Open(dialector); err != nil {
			log.Fatal("Failed to open database: ", err)
		}
	})
	return instance
}

// Open connects and migrates a fresh handle, independent of GetInstance.
func Open(dialector gorm.Dialector) (*DB, error) {
	var logger = common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogger(),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if isMemory(dialector) {
		// every pooled connection to a named memory db shares one cache, a
		// single connection avoids table-level SQLITE_LOCKED between them
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	} else if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("set sqlite journal mode: %w", err)
	}

	if err := conn.AutoMigrate(&models.Sensor{}, &models.TemperatureSample{}, &models.Alert{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("Database migration completed")

	return &DB{Conn: conn, retry: DefaultRetryPolicy}, nil
}

// WithRetryPolicy returns a copy of d that retries busy errors using p.
func (d *DB) WithRetryPolicy(p RetryPolicy) *DB {
	c := *d
	c.retry = p
	return &c
}

func gormLogger() gormlogger.Interface {
	if common.IsTestEnv() {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return gormlogger.Default.LogMode(gormlogger.Warn)
}

func isMemory(dialector gorm.Dialector) bool {
	d, ok := dialector.(*sqlite.Dialector)
	if !ok {
		return false
	}
	return strings.Contains(d.DSN, ":memory:") || strings.Contains(d.DSN, "mode=memory")
}

// UseSqliteDialector opens the file at path, falling back to W1_DB_PATH and
// then temperature.db.
func UseSqliteDialector(path string) gorm.Dialector {
	if path == "" {
		var found bool
		if path, found = os.LookupEnv(common.EnvKeyDbPath); !found {
			path = "temperature.db"
		}
	}
	return sqlite.Open(fmt.Sprintf("%s?_busy_timeout=%d", path, busyTimeoutMs))
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseIsolatedMemorySqliteDialector gives every caller its own memory database.
func UseIsolatedMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=%d", uuid.NewString(), busyTimeoutMs))
}
