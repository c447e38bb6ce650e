package handlers

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

func Test_streamSnapshots(t *testing.T) {
	snapshots := make(chan []marketplace.Listing, 2)
	snapshots <- []marketplace.Listing{}
	snapshots <- []marketplace.Listing{{ID: "l1", CardID: "LOB-001", Status: marketplace.ListingOpen}}
	close(snapshots)

	var buf bytes.Buffer
	streamSnapshots(bufio.NewWriter(&buf), snapshots, time.Hour)

	events := strings.Split(strings.TrimSpace(buf.String()), "\n\n")
	require.Len(t, events, 2)
	assert.Equal(t, "event: listings\ndata: []", events[0])
	assert.True(t, strings.HasPrefix(events[1], "event: listings\ndata: [{\"id\":\"l1\""))
}

func Test_streamSnapshots_KeepAlive(t *testing.T) {
	snapshots := make(chan []marketplace.Listing)

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		streamSnapshots(bufio.NewWriter(&buf), snapshots, 10*time.Millisecond)
	}()

	time.Sleep(35 * time.Millisecond)
	close(snapshots)
	<-done

	assert.Contains(t, buf.String(), ": keep-alive\n\n")
}

func Test_toCreateRequest(t *testing.T) {
	usd := "USD"
	tests := []struct {
		name    string
		body    models.CreateListingRequest
		want    marketplace.CreateListingRequest
		wantErr marketplace.ErrorKind
	}{
		{
			name: "defaults",
			body: models.CreateListingRequest{Type: "BID", CardID: "c", PriceCents: []byte("250")},
			want: marketplace.CreateListingRequest{Type: "BID", CardID: "c", PriceCents: 250, Currency: "USD", Quantity: 1},
		},
		{
			name: "explicit",
			body: models.CreateListingRequest{Type: "ASK", CardID: "c", PriceCents: []byte("1e2"), Currency: &usd, Quantity: []byte("1.0")},
			want: marketplace.CreateListingRequest{Type: "ASK", CardID: "c", PriceCents: 100, Currency: "USD", Quantity: 1},
		},
		{
			name:    "boolean quantity",
			body:    models.CreateListingRequest{PriceCents: []byte("250"), Quantity: []byte("true")},
			wantErr: marketplace.KindInvalidArgument,
		},
		{
			name:    "null price",
			body:    models.CreateListingRequest{PriceCents: []byte("null")},
			wantErr: marketplace.KindInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toCreateRequest(tt.body)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, marketplace.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
