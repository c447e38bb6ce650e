package models

import (
	"slices"
	"time"

	"github.com/uptrace/bun"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID                string    `bun:"id,pk,type:uuid"`
	ListingID         string    `bun:"listing_id,notnull,unique,type:uuid"`
	CardID            string    `bun:"card_id,notnull"`
	CardDisplayName   string    `bun:"card_display_name,nullzero"`
	Type              string    `bun:"type,notnull"`
	PriceCents        int64     `bun:"price_cents,notnull"`
	Currency          string    `bun:"currency,notnull"`
	Quantity          int64     `bun:"quantity,notnull"`
	BuyerUID          string    `bun:"buyer_uid,notnull"`
	BuyerDisplayName  string    `bun:"buyer_display_name,nullzero"`
	SellerUID         string    `bun:"seller_uid,notnull"`
	SellerDisplayName string    `bun:"seller_display_name,nullzero"`
	Participants      []string  `bun:"participants,array,notnull"`
	Status            string    `bun:"status,notnull"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Listing *Listing `bun:"rel:belongs-to,join:listing_id=id"`
}

func NewTrade(t *marketplace.Trade) *Trade {
	return &Trade{
		ID:                t.ID,
		ListingID:         t.ListingID,
		CardID:            t.CardID,
		CardDisplayName:   t.CardDisplayName,
		Type:              string(t.Type),
		PriceCents:        t.PriceCents,
		Currency:          t.Currency,
		Quantity:          t.Quantity,
		BuyerUID:          t.BuyerUID,
		BuyerDisplayName:  t.BuyerDisplayName,
		SellerUID:         t.SellerUID,
		SellerDisplayName: t.SellerDisplayName,
		Participants:      slices.Clone(t.Participants),
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (m *Trade) ToDomain() *marketplace.Trade {
	return &marketplace.Trade{
		ID:                m.ID,
		ListingID:         m.ListingID,
		CardID:            m.CardID,
		CardDisplayName:   m.CardDisplayName,
		Type:              marketplace.ListingType(m.Type),
		PriceCents:        m.PriceCents,
		Currency:          m.Currency,
		Quantity:          m.Quantity,
		BuyerUID:          m.BuyerUID,
		BuyerDisplayName:  m.BuyerDisplayName,
		SellerUID:         m.SellerUID,
		SellerDisplayName: m.SellerDisplayName,
		Participants:      slices.Clone(m.Participants),
		Status:            marketplace.TradeStatus(m.Status),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}
