// Package catalog serves the static card dataset: display names for listings
// and fuzzy search for card pickers.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/storydeck/marketplace/storydeck/config"
)

type Card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Set    string `json:"set,omitempty"`
	Rarity string `json:"rarity,omitempty"`
}

// searchItems implements fuzzy.Source over normalized "name set" strings.
type searchItems []searchItem

type searchItem struct {
	card *Card
	key  string
}

func (items searchItems) Len() int {
	return len(items)
}

func (items searchItems) String(i int) string {
	return items[i].key
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	byID  map[string]*Card
	items searchItems
	cache *lru.Cache
}

func New(cards []Card) (*Catalog, error) {
	cache, err := lru.New(config.SearchCacheSize)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		byID:  make(map[string]*Card, len(cards)),
		items: make(searchItems, 0, len(cards)),
		cache: cache,
	}
	for i := range cards {
		card := &cards[i]
		if card.ID == "" {
			return nil, fmt.Errorf("card %d has no id", i)
		}
		if _, dup := c.byID[card.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", card.ID)
		}
		c.byID[card.ID] = card
		c.items = append(c.items, searchItem{card: card, key: normalize(card.Name + " " + card.Set)})
	}
	return c, nil
}

// Load reads a JSON array of cards from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", src, err)
	}
	defer r.Close()

	cards, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", src, err)
	}
	c, err := New(cards)
	if err != nil {
		return nil, err
	}

	slog.Info("Card catalog loaded",
		slog.String("type", "sys"),
		slog.String("source", src.String()),
		slog.Int("cards", len(cards)),
	)
	return c, nil
}

func decode(r io.Reader) ([]Card, error) {
	var cards []Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Catalog) Len() int {
	return len(c.byID)
}

// Card returns the catalog entry for id.
func (c *Catalog) Card(id string) (Card, bool) {
	card, ok := c.byID[id]
	if !ok {
		return Card{}, false
	}
	return *card, true
}

// DisplayName returns the card's name. Unknown ids report false; card ids
// are opaque to the marketplace and are never rejected for being absent here.
func (c *Catalog) DisplayName(cardID string) (string, bool) {
	card, ok := c.byID[cardID]
	if !ok || card.Name == "" {
		return "", false
	}
	return card.Name, true
}

// Search returns up to limit cards ranked by fuzzy match against name and set.
func (c *Catalog) Search(query string, limit int) []Card {
	if limit <= 0 {
		limit = config.DefaultSearchResults
	}
	limit = min(limit, config.MaxSearchResults)

	q := normalize(query)
	if q == "" {
		return []Card{}
	}

	var ranked []*Card
	if hit, ok := c.cache.Get(q); ok {
		ranked = hit.([]*Card)
	} else {
		matches := fuzzy.FindFrom(q, c.items)
		ranked = make([]*Card, len(matches))
		for i, m := range matches {
			ranked[i] = c.items[m.Index].card
		}
		c.cache.Add(q, ranked)
	}

	out := make([]Card, 0, min(limit, len(ranked)))
	for _, card := range ranked[:min(limit, len(ranked))] {
		out = append(out, *card)
	}
	return out
}

// normalize lowercases and collapses everything but letters and digits to single spaces.
func normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}
