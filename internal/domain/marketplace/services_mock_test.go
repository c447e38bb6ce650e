package marketplace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/internal/domain/marketplace/mock"
)

func runTx(tx marketplace.Tx) func(context.Context, func(context.Context, marketplace.Tx) error) error {
	return func(ctx context.Context, fn func(context.Context, marketplace.Tx) error) error {
		return fn(ctx, tx)
	}
}

func Test_ListingService_AcceptListing_writes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	tx := mock.NewMockTx(ctrl)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	listing := &marketplace.Listing{
		ID: "l1", Type: marketplace.ListingAsk, Status: marketplace.ListingOpen, CardID: "c1",
		PriceCents: 250, Currency: marketplace.CurrencyUSD, Quantity: 1,
		CreatedByUID: "alice", CreatedByDisplayName: "Alice",
	}

	store.EXPECT().RunInTransaction(gomock.Any(), gomock.Any()).DoAndReturn(runTx(tx))
	gomock.InOrder(
		tx.EXPECT().GetListing(gomock.Any(), "l1").Return(listing, nil),
		tx.EXPECT().UpdateListing(gomock.Any(), gomock.Any(), marketplace.ListingOpen).
			DoAndReturn(func(_ context.Context, l *marketplace.Listing, _ marketplace.ListingStatus) error {
				if l.Status != marketplace.ListingAccepted || l.AcceptedByUID != "bob" || !l.UpdatedAt.Equal(now) {
					t.Errorf("UpdateListing() got %+v", l)
				}
				return nil
			}),
		tx.EXPECT().InsertTrade(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *marketplace.Trade) (string, error) {
				if tr.BuyerUID != "bob" || tr.SellerUID != "alice" || tr.Status != marketplace.TradePending {
					t.Errorf("InsertTrade() got %+v", tr)
				}
				return "t1", nil
			}),
	)

	s := marketplace.NewListingService(store, marketplace.WithClock(func() time.Time { return now }))
	got, err := s.AcceptListing(context.Background(), &marketplace.Identity{UID: "bob", DisplayName: "Bob"}, "l1")
	if err != nil {
		t.Fatalf("AcceptListing() error = %v", err)
	}
	if got != "t1" {
		t.Errorf("AcceptListing() = %v, want t1", got)
	}
}

func Test_ListingService_storageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	boom := errors.New("connection refused")

	store.EXPECT().InsertListing(gomock.Any(), gomock.Any()).Return("", boom)
	store.EXPECT().RunInTransaction(gomock.Any(), gomock.Any()).Return(boom)
	store.EXPECT().OpenListings(gomock.Any(), "").Return(nil, boom)

	s := marketplace.NewListingService(store)
	ctx := context.Background()
	who := &marketplace.Identity{UID: "alice", DisplayName: "Alice"}

	_, err := s.CreateListing(ctx, who, marketplace.CreateListingRequest{
		Type: marketplace.ListingBid, CardID: "c1", PriceCents: 1, Currency: marketplace.CurrencyUSD, Quantity: 1,
	})
	if marketplace.KindOf(err) != marketplace.KindStorage || !errors.Is(err, boom) {
		t.Errorf("CreateListing() error = %v, want storage-error wrapping %v", err, boom)
	}

	_, err = s.AcceptListing(ctx, who, "l1")
	if marketplace.KindOf(err) != marketplace.KindStorage {
		t.Errorf("AcceptListing() error = %v, want storage-error", err)
	}

	_, err = s.OpenListings(ctx, "")
	if marketplace.KindOf(err) != marketplace.KindStorage {
		t.Errorf("OpenListings() error = %v, want storage-error", err)
	}
}

func Test_TradeService_guardLost(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	tx := mock.NewMockTx(ctrl)

	trade := &marketplace.Trade{ID: "t1", Participants: []string{"bob", "alice"}, Status: marketplace.TradePending}
	store.EXPECT().RunInTransaction(gomock.Any(), gomock.Any()).DoAndReturn(runTx(tx))
	tx.EXPECT().GetTrade(gomock.Any(), "t1").Return(trade, nil)
	tx.EXPECT().UpdateTrade(gomock.Any(), gomock.Any(), marketplace.TradePending).Return(marketplace.ErrConflict)

	s := marketplace.NewTradeService(store)
	err := s.UpdateTradeStatus(context.Background(), &marketplace.Identity{UID: "bob"}, "t1", marketplace.TradeCompleted)
	if marketplace.KindOf(err) != marketplace.KindStorage || !errors.Is(err, marketplace.ErrConflict) {
		t.Errorf("UpdateTradeStatus() error = %v, want storage-error wrapping ErrConflict", err)
	}
}
