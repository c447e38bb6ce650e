package marketplace_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/internal/domain/marketplace/memstore"
)

// interleavedStore runs midRead after its first OpenListings has read but
// before it returns, the way a commit can land while Subscribe loads its
// initial snapshot.
type interleavedStore struct {
	*memstore.Store
	midRead   func()
	reads     atomic.Int32
	listening chan struct{}
	once      sync.Once
}

func (s *interleavedStore) OpenListings(ctx context.Context, cardID string) ([]marketplace.Listing, error) {
	snap, err := s.Store.OpenListings(ctx, cardID)
	if s.reads.Add(1) == 1 && s.midRead != nil {
		s.midRead()
	}
	return snap, err
}

func (s *interleavedStore) ListingChanges(ctx context.Context) (<-chan string, error) {
	ch, err := s.Store.ListingChanges(ctx)
	s.once.Do(func() { close(s.listening) })
	return ch, err
}

func nextSnapshot(t *testing.T, ch <-chan []marketplace.Listing) []marketplace.Listing {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "feed closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, listings, _ := newServices(t)
	feed := marketplace.NewFeed(store, store)

	running := make(chan error, 1)
	go func() { running <- feed.Run(ctx) }()

	subCtx, unsubscribe := context.WithCancel(ctx)
	snaps, err := feed.Subscribe(subCtx, "LT24-ELS-01")
	require.NoError(t, err)
	assert.Empty(t, nextSnapshot(t, snaps))

	// Give Run a chance to register with the change source.
	require.Eventually(t, func() bool {
		if _, err := listings.CreateListing(ctx, alice, validRequest(marketplace.ListingAsk)); err != nil {
			return false
		}
		select {
		case snap := <-snaps:
			return len(snap) > 0
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	open, err := listings.OpenListings(ctx, "LT24-ELS-01")
	require.NoError(t, err)
	require.NoError(t, listings.CancelListing(ctx, alice, open[0].ID))

	require.Eventually(t, func() bool {
		select {
		case snap := <-snaps:
			return len(snap) == len(open)-1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	unsubscribe()
	require.Eventually(t, func() bool { return feed.Subscribers() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-running:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not stop")
	}
}

func TestFeed_FiltersByCard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, listings, _ := newServices(t)
	feed := marketplace.NewFeed(store, store)
	go feed.Run(ctx)

	snaps, err := feed.Subscribe(ctx, "LT24-MIC-07")
	require.NoError(t, err)
	nextSnapshot(t, snaps)

	time.Sleep(50 * time.Millisecond)
	_, err = listings.CreateListing(ctx, alice, validRequest(marketplace.ListingAsk))
	require.NoError(t, err)

	select {
	case snap := <-snaps:
		t.Fatalf("unexpected snapshot for another card: %v", snap)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFeed_ChangeDuringSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem, listings, _ := newServices(t)
	store := &interleavedStore{Store: mem, listening: make(chan struct{})}
	store.midRead = func() {
		_, err := listings.CreateListing(ctx, alice, validRequest(marketplace.ListingAsk))
		require.NoError(t, err)
		// The refresh for that listing must reach the new subscriber.
		require.Eventually(t, func() bool { return store.reads.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	}

	feed := marketplace.NewFeed(store, store)
	go feed.Run(ctx)
	<-store.listening

	snaps, err := feed.Subscribe(ctx, "LT24-ELS-01")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case snap := <-snaps:
			return len(snap) == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFeed_AllCardsRefreshesEverySubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, _, _ := newServices(t)
	changes := make(chan string, 1)
	feed := marketplace.NewFeed(store, changeFunc(func(context.Context) (<-chan string, error) {
		return changes, nil
	}))
	go feed.Run(ctx)

	snaps, err := feed.Subscribe(ctx, "LT24-MIC-07")
	require.NoError(t, err)
	assert.Empty(t, nextSnapshot(t, snaps))

	// Written without notifying, as during a listener reconnect.
	store.PutListing(&marketplace.Listing{
		Type: marketplace.ListingAsk, Status: marketplace.ListingOpen, CardID: "LT24-MIC-07",
		PriceCents: 500, Currency: marketplace.CurrencyUSD, Quantity: 1, CreatedByUID: "alice",
	})
	changes <- marketplace.AllCards

	assert.Len(t, nextSnapshot(t, snaps), 1)
}

type changeFunc func(context.Context) (<-chan string, error)

func (f changeFunc) ListingChanges(ctx context.Context) (<-chan string, error) {
	return f(ctx)
}
