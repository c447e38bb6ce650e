package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck/config"
	"github.com/storydeck/marketplace/storydeck/database/models"
	"github.com/storydeck/marketplace/storydeck/database/repositories"
)

// MarketStore is the PostgreSQL marketplace.Store.
type MarketStore struct {
	db       *DB
	listings repositories.ListingRepository
	trades   repositories.TradeRepository
	txm      *TransactionManager
	txOpts   *TransactionOptions
}

var _ marketplace.Store = (*MarketStore)(nil)

func NewMarketStore(db *DB, maxTxRetries int) *MarketStore {
	return &MarketStore{
		db:       db,
		listings: repositories.NewListingRepository(db.BunDB()),
		trades:   repositories.NewTradeRepository(db.BunDB()),
		txm:      NewTransactionManager(db.BunDB()),
		txOpts:   SerializableTransactionOptions(maxTxRetries),
	}
}

func (s *MarketStore) InsertListing(ctx context.Context, listing *marketplace.Listing) (string, error) {
	m := models.NewListing(listing)
	m.ID = uuid.NewString()

	err := s.txm.WithTransaction(ctx, s.txOpts, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.listings.Create(ctx, tx, m); err != nil {
			return err
		}
		return notifyListingChange(ctx, tx, m.CardID)
	})
	if err != nil {
		return "", translate(err)
	}
	return m.ID, nil
}

func (s *MarketStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx marketplace.Tx) error) error {
	isConflict := func(err error) bool { return errors.Is(err, marketplace.ErrConflict) }
	return s.txm.WithTransaction(ctx, s.txOpts, isConflict, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &marketTx{store: s, tx: tx})
	})
}

func (s *MarketStore) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, marketplace.ErrNotFound
	}
	m, err := s.listings.GetByID(ctx, nil, id, false)
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (s *MarketStore) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	if uuid.Validate(id) != nil {
		return nil, marketplace.ErrNotFound
	}
	m, err := s.trades.GetByID(ctx, nil, id, false)
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (s *MarketStore) OpenListings(ctx context.Context, cardID string) ([]marketplace.Listing, error) {
	rows, err := s.listings.GetOpen(ctx, cardID)
	if err != nil {
		return nil, translate(err)
	}
	return listingsToDomain(rows), nil
}

func (s *MarketStore) ListingsByCreator(ctx context.Context, uid string) ([]marketplace.Listing, error) {
	rows, err := s.listings.GetByCreator(ctx, uid)
	if err != nil {
		return nil, translate(err)
	}
	return listingsToDomain(rows), nil
}

func (s *MarketStore) TradesForParticipant(ctx context.Context, uid string) ([]marketplace.Trade, error) {
	rows, err := s.trades.GetByParticipant(ctx, uid)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]marketplace.Trade, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.ToDomain())
	}
	return out, nil
}

func (s *MarketStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// marketTx locks every row it reads with SELECT ... FOR UPDATE.
type marketTx struct {
	store *MarketStore
	tx    bun.Tx
}

func (t *marketTx) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, marketplace.ErrNotFound
	}
	m, err := t.store.listings.GetByID(ctx, t.tx, id, true)
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (t *marketTx) UpdateListing(ctx context.Context, listing *marketplace.Listing, from marketplace.ListingStatus) error {
	if err := t.store.listings.UpdateFrom(ctx, t.tx, models.NewListing(listing), string(from)); err != nil {
		return translate(err)
	}
	return notifyListingChange(ctx, t.tx, listing.CardID)
}

func (t *marketTx) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	if uuid.Validate(id) != nil {
		return nil, marketplace.ErrNotFound
	}
	m, err := t.store.trades.GetByID(ctx, t.tx, id, true)
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (t *marketTx) UpdateTrade(ctx context.Context, trade *marketplace.Trade, from marketplace.TradeStatus) error {
	return translate(t.store.trades.UpdateStatusFrom(ctx, t.tx, models.NewTrade(trade), string(from)))
}

func (t *marketTx) InsertTrade(ctx context.Context, trade *marketplace.Trade) (string, error) {
	m := models.NewTrade(trade)
	m.ID = uuid.NewString()
	if err := t.store.trades.Create(ctx, t.tx, m); err != nil {
		return "", translate(err)
	}
	return m.ID, nil
}

// notifyListingChange queues a notification that PostgreSQL delivers only if
// the surrounding transaction commits.
func notifyListingChange(ctx context.Context, tx bun.Tx, cardID string) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_notify(?, ?)", config.ListingChangesChannel, cardID)
	if err != nil {
		return fmt.Errorf("failed to notify listing change: %w", err)
	}
	return nil
}

// translate maps repository errors onto the marketplace sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var nf *repositories.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", marketplace.ErrNotFound, nf.Error())
	}
	var ce *repositories.ConflictError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %s", marketplace.ErrConflict, ce.Error())
	}
	return err
}

func listingsToDomain(rows []*models.Listing) []marketplace.Listing {
	out := make([]marketplace.Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.ToDomain())
	}
	return out
}
