package handlers

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/storydeck/marketplace/backend/config"
	"github.com/storydeck/marketplace/backend/services"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck/catalog"
)

// CardSearcher is the catalog surface the card picker needs
type CardSearcher interface {
	Search(query string, limit int) []catalog.Card
	Len() int
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config         *config.WebAppConfig
	Store          marketplace.Store
	Listings       *marketplace.ListingService
	Trades         *marketplace.TradeService
	Feed           *marketplace.Feed
	Catalog        CardSearcher
	SessionService *services.SessionService

	// BaseContext bounds long-lived streams; cancelling it ends every open feed.
	BaseContext context.Context
}

func (w *WebApp) baseContext() context.Context {
	if w.BaseContext == nil {
		return context.Background()
	}
	return w.BaseContext
}

func decodeJSON(body []byte, v any) error {
	return json.Unmarshal(body, v)
}

// absent reports whether an optional JSON field was omitted or null
func absent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
