package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck/database/models"
)

const importBatchSize = 500

// ImportStats counts rows written by ImportMarket; rows that already existed are skipped.
type ImportStats struct {
	Listings int64
	Trades   int64
}

// ImportMarket copies listings and trades from another store, keeping their
// ids. Listings go first so trade foreign keys resolve.
func (db *DB) ImportMarket(ctx context.Context, listings []marketplace.Listing, trades []marketplace.Trade) (ImportStats, error) {
	var stats ImportStats
	err := db.bunDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(listings); start += importBatchSize {
			end := min(start+importBatchSize, len(listings))
			batch := make([]*models.Listing, 0, end-start)
			for i := start; i < end; i++ {
				batch = append(batch, models.NewListing(&listings[i]))
			}
			res, err := tx.NewInsert().Model(&batch).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to import listings: %w", err)
			}
			n, _ := res.RowsAffected()
			stats.Listings += n
		}

		for start := 0; start < len(trades); start += importBatchSize {
			end := min(start+importBatchSize, len(trades))
			batch := make([]*models.Trade, 0, end-start)
			for i := start; i < end; i++ {
				batch = append(batch, models.NewTrade(&trades[i]))
			}
			res, err := tx.NewInsert().Model(&batch).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to import trades: %w", err)
			}
			n, _ := res.RowsAffected()
			stats.Trades += n
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}

	slog.Info("Market data imported",
		slog.String("type", "db"),
		slog.Int64("listings", stats.Listings),
		slog.Int64("trades", stats.Trades),
		slog.Int("skipped_listings", len(listings)-int(stats.Listings)),
		slog.Int("skipped_trades", len(trades)-int(stats.Trades)),
	)
	return stats, nil
}
