package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
)

var ErrNotFound = errors.New("record not found")

// PersistenceError is returned once a storage call has failed for good,
// either with a non-retryable error or after the retry budget ran out.
type PersistenceError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error in %s after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	MaxRetries      uint64
}

var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 25 * time.Millisecond,
	MaxInterval:     400 * time.Millisecond,
	MaxElapsedTime:  3 * time.Second,
	MaxRetries:      6,
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// IsBusy reports whether err is sqlite telling us another writer holds the lock.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Do runs fn against the connection, retrying busy/locked failures with
// bounded exponential backoff. Missing rows come back as ErrNotFound, any
// other failure as *PersistenceError.
func (d *DB) Do(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	logger := common.GetLoggerWith(common.LoggerNameIOTCore, zap.String("op", op))

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := fn(d.Conn.WithContext(ctx))
		if err == nil {
			return nil
		}
		if IsBusy(err) {
			logger.Warn("Database busy, retrying", zap.Int("attempt", attempts), zap.Error(err))
			return err
		}
		return backoff.Permanent(err)
	}, d.retry.backOff(ctx))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		logger.Error("Database operation failed", zap.Int("attempts", attempts), zap.Error(err))
		return &PersistenceError{Op: op, Attempts: attempts, Err: err}
	}
}
