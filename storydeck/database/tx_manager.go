package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/storydeck/marketplace/storydeck/utils"
)

// TransactionOptions configures transaction behavior
type TransactionOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
	MaxRetries     int
}

// SerializableTransactionOptions returns the options every listing and trade
// transition runs with.
func SerializableTransactionOptions(maxRetries int) *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     maxRetries,
	}
}

// TransactionManager runs bun transactions and retries serialization failures.
type TransactionManager struct {
	db *bun.DB
}

func NewTransactionManager(db *bun.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn in a transaction, retrying the whole unit when
// PostgreSQL aborts it with a serialization failure or deadlock, or when
// retryable reports true for fn's error.
func (tm *TransactionManager) WithTransaction(ctx context.Context, opts *TransactionOptions, retryable func(error) bool, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = SerializableTransactionOptions(0)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	shouldRetry := func(err error) bool {
		return IsSerializationFailure(err) || (retryable != nil && retryable(err))
	}
	onRetry := func(attempt int, err error) {
		slog.Debug("Retrying transaction",
			slog.String("type", "db"),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
	}

	return utils.Retry(ctx, utils.TxRetryPolicy(opts.MaxRetries), shouldRetry, onRetry, func() error {
		return tm.runOnce(ctx, opts.IsolationLevel, fn)
	})
}

func (tm *TransactionManager) runOnce(ctx context.Context, level sql.IsolationLevel, fn func(context.Context, bun.Tx) error) (err error) {
	tx, err := tm.db.BeginTx(ctx, &sql.TxOptions{Isolation: level})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// IsSerializationFailure reports SQLSTATE 40001 (serialization_failure) and
// 40P01 (deadlock_detected).
func IsSerializationFailure(err error) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Field('C') {
	case "40001", "40P01":
		return true
	default:
		return false
	}
}
