package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/storydeck/marketplace/storydeck/database"
	"github.com/storydeck/marketplace/storydeck/docstore"
	"github.com/storydeck/marketplace/storydeck/logger"
)

var (
	migrateReset     bool
	migrateFromMongo bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create the postgres schema, optionally copying data from mongo",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			logger.LogError("Failed to connect to database", err)
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return err
		}
		if migrateReset {
			if err := db.ResetAppTables(ctx); err != nil {
				return err
			}
		}

		if migrateFromMongo {
			if cfg.Mongo.URI == "" {
				return errors.New("mongo.uri is required for --from-mongo")
			}
			src, err := docstore.Connect(ctx, cfg.Mongo, 0)
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			listings, trades, err := src.Export(ctx)
			if err != nil {
				return err
			}
			stats, err := db.ImportMarket(ctx, listings, trades)
			if err != nil {
				logger.LogError("Migration failed", err)
				return err
			}
			slog.Info("Imported marketplace data from mongo",
				slog.String("type", "db"),
				slog.Int("listings_read", len(listings)),
				slog.Int("trades_read", len(trades)),
				slog.Int64("listings_written", stats.Listings),
				slog.Int64("trades_written", stats.Trades),
			)
		}

		slog.Info("Migration completed successfully!", slog.String("type", "db"))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateReset, "reset", false, "truncate listings and trades before migrating")
	migrateCmd.Flags().BoolVar(&migrateFromMongo, "from-mongo", false, "copy listings and trades from the configured mongo database")
	rootCmd.AddCommand(migrateCmd)
}
