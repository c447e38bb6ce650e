package docstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

type fakeStream struct {
	cards  []string
	err    error
	hold   bool
	cur    string
	closed atomic.Bool
}

func (f *fakeStream) Next(ctx context.Context) bool {
	if len(f.cards) == 0 {
		if f.hold {
			<-ctx.Done()
		}
		return false
	}
	f.cur, f.cards = f.cards[0], f.cards[1:]
	return true
}

func (f *fakeStream) Decode(v any) error {
	v.(*listingChange).FullDocument.CardID = f.cur
	return nil
}

func (f *fakeStream) Err() error { return f.err }

func (f *fakeStream) Close(context.Context) error {
	f.closed.Store(true)
	return nil
}

func receive(t *testing.T, out <-chan string) string {
	t.Helper()
	select {
	case card, ok := <-out:
		require.True(t, ok, "changes closed")
		return card
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a change")
		return ""
	}
}

func TestFollowChanges_Reconnects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := &fakeStream{cards: []string{"LT24-ELS-01"}, err: errors.New("connection reset")}
	second := &fakeStream{cards: []string{"LT24-MIC-07"}, hold: true}
	var watches atomic.Int32
	watch := func(context.Context) (changeStream, error) {
		if watches.Add(1) == 1 {
			return nil, errors.New("no primary")
		}
		return second, nil
	}

	out := make(chan string, 8)
	go followChanges(ctx, first, watch, time.Millisecond, out)

	assert.Equal(t, "LT24-ELS-01", receive(t, out))
	assert.Equal(t, marketplace.AllCards, receive(t, out), "missed changes refresh everything")
	assert.Equal(t, "LT24-MIC-07", receive(t, out))
	assert.True(t, first.closed.Load())
	assert.EqualValues(t, 2, watches.Load())

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-out:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}
