package marketplace

import (
	"context"
	"log/slog"
	"sync"
)

// Feed turns listing change notifications into fresh open-listing snapshots
// for live subscribers. Each subscriber holds at most one pending snapshot;
// a newer snapshot replaces an unread one.
type Feed struct {
	store  Store
	source ChangeSource

	mu   sync.Mutex
	subs map[*feedSubscription]struct{}
}

type feedSubscription struct {
	cardID string
	ch     chan []Listing
}

func NewFeed(store Store, source ChangeSource) *Feed {
	return &Feed{
		store:  store,
		source: source,
		subs:   make(map[*feedSubscription]struct{}),
	}
}

// Subscribe returns a channel of open-listing snapshots for cardID ("" for
// all cards). The current snapshot is queued immediately. The channel is
// closed once ctx is done.
func (f *Feed) Subscribe(ctx context.Context, cardID string) (<-chan []Listing, error) {
	sub := &feedSubscription{cardID: cardID, ch: make(chan []Listing, 1)}

	// Registered before the initial read so a change committed meanwhile
	// still reaches this subscriber through refresh.
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	initial, err := f.store.OpenListings(ctx, cardID)
	if err != nil {
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
		return nil, storageFailure("subscribe open listings", err)
	}

	f.mu.Lock()
	// A snapshot queued by refresh was read after registration and wins.
	select {
	case sub.ch <- initial:
	default:
	}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, sub)
		close(sub.ch)
		f.mu.Unlock()
	}()
	return sub.ch, nil
}

// Subscribers reports how many subscriptions are live.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Run consumes the change source until ctx is done or the source closes.
func (f *Feed) Run(ctx context.Context) error {
	changes, err := f.source.ListingChanges(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case cardID, ok := <-changes:
			if !ok {
				return nil
			}
			f.refresh(ctx, cardID)
		}
	}
}

// refresh re-reads the snapshots affected by a change to changedCardID. An
// AllCards refreshes every subscription.
func (f *Feed) refresh(ctx context.Context, changedCardID string) {
	f.mu.Lock()
	filters := make(map[string]struct{})
	for sub := range f.subs {
		if changedCardID == AllCards || sub.cardID == "" || sub.cardID == changedCardID {
			filters[sub.cardID] = struct{}{}
		}
	}
	f.mu.Unlock()

	snapshots := make(map[string][]Listing, len(filters))
	for cardID := range filters {
		listings, err := f.store.OpenListings(ctx, cardID)
		if err != nil {
			slog.Error("Failed to refresh listing feed",
				slog.String("type", "market"),
				slog.String("card_id", cardID),
				slog.Any("error", err),
			)
			continue
		}
		snapshots[cardID] = listings
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		if snap, ok := snapshots[sub.cardID]; ok {
			offer(sub.ch, snap)
		}
	}
}

// offer never blocks: a stale unread snapshot is dropped in favour of snap.
func offer(ch chan []Listing, snap []Listing) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
