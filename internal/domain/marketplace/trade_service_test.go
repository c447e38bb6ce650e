package marketplace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

func acceptedTrade(t *testing.T, ctx context.Context, listings *marketplace.ListingService) string {
	t.Helper()
	listingID, err := listings.CreateListing(ctx, alice, validRequest(marketplace.ListingAsk))
	require.NoError(t, err)
	tradeID, err := listings.AcceptListing(ctx, bob, listingID)
	require.NoError(t, err)
	return tradeID
}

func TestUpdateTradeStatus(t *testing.T) {
	ctx := context.Background()
	store, listings, trades := newServices(t)
	tradeID := acceptedTrade(t, ctx, listings)

	require.NoError(t, trades.UpdateTradeStatus(ctx, bob, tradeID, marketplace.TradeCompleted))

	got, err := store.GetTrade(ctx, tradeID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TradeCompleted, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	err = trades.UpdateTradeStatus(ctx, alice, tradeID, marketplace.TradeCancelled)
	assert.Equal(t, marketplace.KindInvalidState, marketplace.KindOf(err))

	got, err = store.GetTrade(ctx, tradeID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TradeCompleted, got.Status, "terminal status must not change")
}

func TestUpdateTradeStatus_SellerCancels(t *testing.T) {
	ctx := context.Background()
	store, listings, trades := newServices(t)
	tradeID := acceptedTrade(t, ctx, listings)

	require.NoError(t, trades.UpdateTradeStatus(ctx, alice, tradeID, marketplace.TradeCancelled))

	got, err := store.GetTrade(ctx, tradeID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TradeCancelled, got.Status)
}

func TestUpdateTradeStatus_Rejected(t *testing.T) {
	ctx := context.Background()
	_, listings, trades := newServices(t)
	tradeID := acceptedTrade(t, ctx, listings)

	tests := []struct {
		name      string
		requester *marketplace.Identity
		tradeID   string
		status    marketplace.TradeStatus
		wantKind  marketplace.ErrorKind
	}{
		{name: "Unauthenticated", tradeID: tradeID, status: marketplace.TradeCompleted, wantKind: marketplace.KindUnauthenticated},
		{name: "EmptyID", requester: bob, status: marketplace.TradeCompleted, wantKind: marketplace.KindInvalidArgument},
		{name: "BlankID", requester: bob, tradeID: " \t ", status: marketplace.TradeCompleted, wantKind: marketplace.KindInvalidArgument},
		{name: "BackToPending", requester: bob, tradeID: tradeID, status: marketplace.TradePending, wantKind: marketplace.KindInvalidArgument},
		{name: "UnknownStatus", requester: bob, tradeID: tradeID, status: "SHIPPED", wantKind: marketplace.KindInvalidArgument},
		{name: "Missing", requester: bob, tradeID: "nope", status: marketplace.TradeCompleted, wantKind: marketplace.KindNotFound},
		{name: "Outsider", requester: carol, tradeID: tradeID, status: marketplace.TradeCompleted, wantKind: marketplace.KindPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := trades.UpdateTradeStatus(ctx, tt.requester, tt.tradeID, tt.status)
			assert.Equal(t, tt.wantKind, marketplace.KindOf(err))
		})
	}
}

func TestTradeVisibility(t *testing.T) {
	ctx := context.Background()
	_, listings, trades := newServices(t)
	tradeID := acceptedTrade(t, ctx, listings)

	got, err := trades.Trade(ctx, alice, tradeID)
	require.NoError(t, err)
	assert.Equal(t, tradeID, got.ID)

	_, err = trades.Trade(ctx, carol, tradeID)
	assert.Equal(t, marketplace.KindPermissionDenied, marketplace.KindOf(err))

	mine, err := trades.MyTrades(ctx, bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	none, err := trades.MyTrades(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, none)
}
