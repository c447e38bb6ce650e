package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storydeck/marketplace/backend"
	webconfig "github.com/storydeck/marketplace/backend/config"
	"github.com/storydeck/marketplace/backend/handlers"
	"github.com/storydeck/marketplace/backend/services"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/internal/domain/marketplace/memstore"
	"github.com/storydeck/marketplace/storydeck"
	"github.com/storydeck/marketplace/storydeck/catalog"
	"github.com/storydeck/marketplace/storydeck/database"
	"github.com/storydeck/marketplace/storydeck/docstore"
	"github.com/storydeck/marketplace/storydeck/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the marketplace HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.LogSystem("Starting StoryDeck marketplace",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("store", cfg.Store.Driver),
	)

	store, source, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []marketplace.Option{marketplace.WithTxTimeout(cfg.Market.TxTimeout.Std())}
	webCfg := webconfig.NewWebAppConfig(cfg, version, commit)
	webApp := &handlers.WebApp{
		Config:         webCfg,
		Store:          store,
		SessionService: services.NewSessionService(webCfg),
		BaseContext:    ctx,
	}

	cat, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	if cat != nil {
		webApp.Catalog = cat
		opts = append(opts, marketplace.WithCardNamer(cat))
	}

	webApp.Listings = marketplace.NewListingService(store, opts...)
	webApp.Trades = marketplace.NewTradeService(store, opts...)
	webApp.Feed = marketplace.NewFeed(store, source)

	go func() {
		if err := webApp.Feed.Run(ctx); err != nil {
			logger.LogError("Listing feed stopped", err)
		}
	}()

	app := backend.NewApp(webApp)
	listenErr := make(chan error, 1)
	go func() {
		logger.LogSystem("Starting backend server", slog.String("address", cfg.Web.Addr()))
		listenErr <- app.Listen(cfg.Web.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.LogSystem("Shutting down backend server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.LogError("Server shutdown error", err)
	}

	logger.LogSystem("Backend server shutdown complete")
	return nil
}

type marketStore interface {
	marketplace.Store
	marketplace.ChangeSource
}

// openStore connects the configured backend. The returned close func releases it.
func openStore(ctx context.Context, cfg *storydeck.Config) (marketplace.Store, marketplace.ChangeSource, func(), error) {
	switch cfg.Store.Driver {
	case storydeck.DriverPostgres:
		start := time.Now()
		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := db.InitializeSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to initialize database schema: %w", err)
		}
		slog.Info("Database connected successfully",
			slog.String("type", "db"),
			slog.String("database", cfg.DB.Database),
			slog.Duration("took", time.Since(start)),
		)
		return database.NewMarketStore(db, cfg.Market.MaxTxRetries), database.NewListingListener(db), db.Close, nil

	case storydeck.DriverMongo:
		store, err := docstore.Connect(ctx, cfg.Mongo, cfg.Market.MaxTxRetries)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return store, store, closeFn, nil

	case storydeck.DriverMemory:
		slog.Warn("Using in-memory store; data is lost on exit", slog.String("type", "sys"))
		var store marketStore = memstore.New()
		return store, store, func() {}, nil

	default:
		return nil, nil, nil, errors.New("unknown store driver " + cfg.Store.Driver)
	}
}

func loadCatalog(ctx context.Context, cfg storydeck.CatalogConfig) (*catalog.Catalog, error) {
	src, err := catalog.SourceFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if src == nil {
		logger.LogSystem("No card catalog configured")
		return nil, nil
	}
	return catalog.Load(ctx, src)
}
