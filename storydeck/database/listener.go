package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck/config"
)

// ListingListener turns listing_changes notifications into a marketplace.ChangeSource.
type ListingListener struct {
	db *DB
}

var _ marketplace.ChangeSource = (*ListingListener)(nil)

func NewListingListener(db *DB) *ListingListener {
	return &ListingListener{db: db}
}

// ListingChanges holds one pooled connection in LISTEN mode and reconnects
// after failures until ctx is done. marketplace.AllCards is sent each time
// LISTEN succeeds.
func (l *ListingListener) ListingChanges(ctx context.Context) (<-chan string, error) {
	out := make(chan string, 64)
	go func() {
		defer close(out)
		for {
			err := l.listen(ctx, out)
			if ctx.Err() != nil {
				return
			}
			slog.Warn("Listing listener disconnected, reconnecting",
				slog.String("type", "db"),
				slog.Any("error", err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(config.ListenReconnectDelay):
			}
		}
	}()
	return out, nil
}

func (l *ListingListener) listen(ctx context.Context, out chan<- string) error {
	pooled, err := l.db.Pool().Acquire(ctx)
	if err != nil {
		return err
	}
	// A connection left in LISTEN mode must not go back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	channel := pgx.Identifier{config.ListingChangesChannel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		return err
	}
	slog.Info("Listening for listing changes",
		slog.String("type", "db"),
		slog.String("channel", config.ListingChangesChannel),
	)

	// Notifications sent while no connection was listening are gone.
	select {
	case out <- marketplace.AllCards:
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		select {
		case out <- n.Payload:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
