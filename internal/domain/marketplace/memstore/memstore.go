// Package memstore is an in-process marketplace.Store for tests and local
// development. Transactions run one at a time and stage their writes until fn
// succeeds.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

type Store struct {
	mu       sync.Mutex
	listings map[string]*marketplace.Listing
	trades   map[string]*marketplace.Trade

	watchMu  sync.Mutex
	watchers map[chan string]struct{}
}

var (
	_ marketplace.Store        = (*Store)(nil)
	_ marketplace.ChangeSource = (*Store)(nil)
)

func New() *Store {
	return &Store{
		listings: make(map[string]*marketplace.Listing),
		trades:   make(map[string]*marketplace.Trade),
		watchers: make(map[chan string]struct{}),
	}
}

// PutListing stores listing as-is, bypassing validation. It seeds fixtures
// such as legacy listings that no longer pass the current rules.
func (s *Store) PutListing(listing *marketplace.Listing) string {
	s.mu.Lock()
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	s.listings[listing.ID] = listing.Clone()
	s.mu.Unlock()

	s.publish(listing.CardID)
	return listing.ID
}

// PutTrade stores trade as-is.
func (s *Store) PutTrade(trade *marketplace.Trade) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	s.trades[trade.ID] = trade.Clone()
	return trade.ID
}

func (s *Store) InsertListing(ctx context.Context, listing *marketplace.Listing) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stored := listing.Clone()
	stored.ID = uuid.NewString()
	return s.PutListing(stored), nil
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx marketplace.Tx) error) error {
	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}

	tx := &memTx{
		store:    s,
		listings: make(map[string]*marketplace.Listing),
		trades:   make(map[string]*marketplace.Trade),
	}
	if err := fn(ctx, tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}

	changed := make([]string, 0, len(tx.listings))
	for id, l := range tx.listings {
		s.listings[id] = l
		changed = append(changed, l.CardID)
	}
	for id, t := range tx.trades {
		s.trades[id] = t
	}
	s.mu.Unlock()

	for _, cardID := range changed {
		s.publish(cardID)
	}
	return nil
}

func (s *Store) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, marketplace.ErrNotFound
	}
	return l.Clone(), nil
}

func (s *Store) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trades[id]
	if !ok {
		return nil, marketplace.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *Store) OpenListings(ctx context.Context, cardID string) ([]marketplace.Listing, error) {
	return s.selectListings(func(l *marketplace.Listing) bool {
		return l.Status == marketplace.ListingOpen && (cardID == "" || l.CardID == cardID)
	}), nil
}

func (s *Store) ListingsByCreator(ctx context.Context, uid string) ([]marketplace.Listing, error) {
	return s.selectListings(func(l *marketplace.Listing) bool {
		return l.CreatedByUID == uid
	}), nil
}

func (s *Store) TradesForParticipant(ctx context.Context, uid string) ([]marketplace.Trade, error) {
	s.mu.Lock()
	out := make([]marketplace.Trade, 0)
	for _, t := range s.trades {
		if t.HasParticipant(uid) {
			out = append(out, *t.Clone())
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b marketplace.Trade) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ListingChanges streams the card id of every committed listing write until ctx is done.
func (s *Store) ListingChanges(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 64)
	s.watchMu.Lock()
	s.watchers[ch] = struct{}{}
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.watchMu.Unlock()
	}()
	return ch, nil
}

func (s *Store) publish(cardID string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- cardID:
		default:
		}
	}
}

func (s *Store) selectListings(keep func(*marketplace.Listing) bool) []marketplace.Listing {
	s.mu.Lock()
	out := make([]marketplace.Listing, 0)
	for _, l := range s.listings {
		if keep(l) {
			out = append(out, *l.Clone())
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b marketplace.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// memTx reads through its staged writes to the committed maps. The store
// mutex is held for the whole transaction.
type memTx struct {
	store    *Store
	listings map[string]*marketplace.Listing
	trades   map[string]*marketplace.Trade
}

func (tx *memTx) GetListing(ctx context.Context, id string) (*marketplace.Listing, error) {
	if l, ok := tx.listings[id]; ok {
		return l.Clone(), nil
	}
	if l, ok := tx.store.listings[id]; ok {
		return l.Clone(), nil
	}
	return nil, marketplace.ErrNotFound
}

func (tx *memTx) UpdateListing(ctx context.Context, listing *marketplace.Listing, from marketplace.ListingStatus) error {
	current, err := tx.GetListing(ctx, listing.ID)
	if err != nil {
		return err
	}
	if current.Status != from {
		return marketplace.ErrConflict
	}
	tx.listings[listing.ID] = listing.Clone()
	return nil
}

func (tx *memTx) GetTrade(ctx context.Context, id string) (*marketplace.Trade, error) {
	if t, ok := tx.trades[id]; ok {
		return t.Clone(), nil
	}
	if t, ok := tx.store.trades[id]; ok {
		return t.Clone(), nil
	}
	return nil, marketplace.ErrNotFound
}

func (tx *memTx) UpdateTrade(ctx context.Context, trade *marketplace.Trade, from marketplace.TradeStatus) error {
	current, err := tx.GetTrade(ctx, trade.ID)
	if err != nil {
		return err
	}
	if current.Status != from {
		return marketplace.ErrConflict
	}
	tx.trades[trade.ID] = trade.Clone()
	return nil
}

func (tx *memTx) InsertTrade(ctx context.Context, trade *marketplace.Trade) (string, error) {
	stored := trade.Clone()
	stored.ID = uuid.NewString()
	tx.trades[stored.ID] = stored
	return stored.ID, nil
}
