// Package docstore keeps listings and trades in MongoDB. Transactions and
// change streams need a replica set.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck"
	"github.com/storydeck/marketplace/storydeck/config"
	"github.com/storydeck/marketplace/storydeck/utils"
)

const (
	listingsCollection = "listings"
	tradesCollection   = "trades"
)

type Store struct {
	client     *mongo.Client
	listings   *mongo.Collection
	trades     *mongo.Collection
	maxRetries int
}

var (
	_ marketplace.Store        = (*Store)(nil)
	_ marketplace.ChangeSource = (*Store)(nil)
)

func Connect(ctx context.Context, cfg storydeck.MongoConfig, maxTxRetries int) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(config.NetworkDialTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return New(client, cfg.Database, maxTxRetries), nil
}

func New(client *mongo.Client, database string, maxTxRetries int) *Store {
	db := client.Database(database)
	return &Store{
		client:     client,
		listings:   db.Collection(listingsCollection),
		trades:     db.Collection(tradesCollection),
		maxRetries: maxTxRetries,
	}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the open-listings and my-trades queries use.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.listings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "cardId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdByUid", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	_, err = s.trades.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "listingId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create trade indexes: %w", err)
	}
	slog.Info("Mongo indexes ready", slog.String("type", "db"))
	return nil
}

func (s *Store) InsertListing(ctx context.Context, listing *marketplace.Listing) (string, error) {
	doc := fromListing(listing)
	doc.ID = uuid.NewString()
	if _, err := s.listings.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert listing: %w", err)
	}
	return doc.ID, nil
}

// RunInTransaction uses snapshot reads and majority writes. The driver
// retries transient transaction errors itself; guarded writes that lost a
// race are retried here.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx marketplace.Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	isConflict := func(err error) bool { return errors.Is(err, marketplace.ErrConflict) }
	return utils.Retry(ctx, utils.TxRetryPolicy(s.maxRetries), isConflict, nil, func() error {
		_, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
			return nil, fn(sc, &docTx{store: s})
		}, txOpts)
		return err
	})
}

func (s *Store) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	return s.findListing(ctx, id)
}

func (s *Store) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	return s.findTrade(ctx, id)
}

func (s *Store) OpenListings(ctx context.Context, cardID string) ([]marketplace.Listing, error) {
	filter := bson.D{{Key: "status", Value: string(marketplace.ListingOpen)}}
	if cardID != "" {
		filter = append(filter, bson.E{Key: "cardId", Value: cardID})
	}
	return s.findListings(ctx, filter)
}

func (s *Store) ListingsByCreator(ctx context.Context, uid string) ([]marketplace.Listing, error) {
	return s.findListings(ctx, bson.D{{Key: "createdByUid", Value: uid}})
}

func (s *Store) TradesForParticipant(ctx context.Context, uid string) ([]marketplace.Trade, error) {
	cur, err := s.trades.Find(ctx, bson.D{{Key: "participants", Value: uid}}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find trades: %w", err)
	}
	var docs []tradeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode trades: %w", err)
	}
	out := make([]marketplace.Trade, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// ListingChanges follows the listings change stream until ctx is done. A
// broken stream is reopened after config.ListenReconnectDelay and followed by
// marketplace.AllCards, since changes made in between were not seen.
func (s *Store) ListingChanges(ctx context.Context) (<-chan string, error) {
	stream, err := s.watchListings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan string, 64)
	go followChanges(ctx, stream, s.watchListings, config.ListenReconnectDelay, out)
	return out, nil
}

func (s *Store) watchListings(ctx context.Context) (changeStream, error) {
	stream, err := s.listings.Watch(ctx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, fmt.Errorf("watch listings: %w", err)
	}
	return stream, nil
}

// changeStream is the part of *mongo.ChangeStream the feed reads.
type changeStream interface {
	Next(ctx context.Context) bool
	Decode(v any) error
	Err() error
	Close(ctx context.Context) error
}

type listingChange struct {
	FullDocument struct {
		CardID string `bson:"cardId"`
	} `bson:"fullDocument"`
}

func followChanges(ctx context.Context, stream changeStream, watch func(context.Context) (changeStream, error), delay time.Duration, out chan<- string) {
	defer close(out)
	for {
		err := drainChanges(ctx, stream, out)
		if ctx.Err() != nil {
			return
		}
		slog.Warn("Listing change stream stopped, reconnecting",
			slog.String("type", "db"),
			slog.Any("error", err),
		)

		stream = nil
		for stream == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if stream, err = watch(ctx); err != nil {
				slog.Warn("Listing change stream unavailable",
					slog.String("type", "db"),
					slog.Any("error", err),
				)
				stream = nil
			}
		}

		select {
		case out <- marketplace.AllCards:
		case <-ctx.Done():
			stream.Close(context.Background())
			return
		}
	}
}

func drainChanges(ctx context.Context, stream changeStream, out chan<- string) error {
	defer stream.Close(context.Background())
	for stream.Next(ctx) {
		var event listingChange
		if err := stream.Decode(&event); err != nil {
			slog.Error("Failed to decode listing change", slog.String("type", "db"), slog.Any("error", err))
			continue
		}
		select {
		case out <- event.FullDocument.CardID:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	return errors.New("listing change stream closed")
}

// Export reads every listing and trade, oldest first, for copying into another store.
func (s *Store) Export(ctx context.Context) ([]marketplace.Listing, []marketplace.Trade, error) {
	oldestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.listings.Find(ctx, bson.D{}, oldestFirst)
	if err != nil {
		return nil, nil, fmt.Errorf("find listings: %w", err)
	}
	var listingDocs []listingDoc
	if err := cur.All(ctx, &listingDocs); err != nil {
		return nil, nil, fmt.Errorf("decode listings: %w", err)
	}

	cur, err = s.trades.Find(ctx, bson.D{}, oldestFirst)
	if err != nil {
		return nil, nil, fmt.Errorf("find trades: %w", err)
	}
	var tradeDocs []tradeDoc
	if err := cur.All(ctx, &tradeDocs); err != nil {
		return nil, nil, fmt.Errorf("decode trades: %w", err)
	}

	listings := make([]marketplace.Listing, 0, len(listingDocs))
	for i := range listingDocs {
		listings = append(listings, *listingDocs[i].toDomain())
	}
	trades := make([]marketplace.Trade, 0, len(tradeDocs))
	for i := range tradeDocs {
		trades = append(trades, *tradeDocs[i].toDomain())
	}
	return listings, trades, nil
}

func (s *Store) findListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	var doc listingDoc
	err := s.listings.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: listing %s", marketplace.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) findTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	var doc tradeDoc
	err := s.trades.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: trade %s", marketplace.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find trade: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) findListings(ctx context.Context, filter bson.D) ([]marketplace.Listing, error) {
	cur, err := s.listings.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	out := make([]marketplace.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
}

// docTx runs every call on the session context it is handed.
type docTx struct {
	store *Store
}

func (t *docTx) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	return t.store.findListing(ctx, id)
}

func (t *docTx) UpdateListing(ctx context.Context, listing *marketplace.Listing, from marketplace.ListingStatus) error {
	set := bson.D{
		{Key: "status", Value: string(listing.Status)},
		{Key: "updatedAt", Value: listing.UpdatedAt},
	}
	if listing.AcceptedByUID != "" {
		set = append(set,
			bson.E{Key: "acceptedByUid", Value: listing.AcceptedByUID},
			bson.E{Key: "acceptedByDisplayName", Value: listing.AcceptedByDisplayName},
			bson.E{Key: "acceptedAt", Value: listing.AcceptedAt},
		)
	}
	res, err := t.store.listings.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: listing.ID}, {Key: "status", Value: string(from)}},
		bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: listing %s left %s", marketplace.ErrConflict, listing.ID, from)
	}
	return nil
}

func (t *docTx) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	return t.store.findTrade(ctx, id)
}

func (t *docTx) UpdateTrade(ctx context.Context, trade *marketplace.Trade, from marketplace.TradeStatus) error {
	res, err := t.store.trades.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: trade.ID}, {Key: "status", Value: string(from)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(trade.Status)},
			{Key: "updatedAt", Value: trade.UpdatedAt},
		}}})
	if err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: trade %s left %s", marketplace.ErrConflict, trade.ID, from)
	}
	return nil
}

func (t *docTx) InsertTrade(ctx context.Context, trade *marketplace.Trade) (string, error) {
	doc := fromTrade(trade)
	doc.ID = uuid.NewString()
	if _, err := t.store.trades.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert trade: %w", err)
	}
	return doc.ID, nil
}
