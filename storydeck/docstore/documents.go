package docstore

import (
	"slices"
	"time"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

type listingDoc struct {
	ID                    string     `bson:"_id"`
	Type                  string     `bson:"type"`
	Status                string     `bson:"status"`
	CardID                string     `bson:"cardId"`
	CardDisplayName       string     `bson:"cardDisplayName,omitempty"`
	PriceCents            int64      `bson:"priceCents"`
	Currency              string     `bson:"currency"`
	Quantity              int64      `bson:"quantity"`
	CreatedByUID          string     `bson:"createdByUid"`
	CreatedByDisplayName  string     `bson:"createdByDisplayName,omitempty"`
	AcceptedByUID         string     `bson:"acceptedByUid,omitempty"`
	AcceptedByDisplayName string     `bson:"acceptedByDisplayName,omitempty"`
	AcceptedAt            *time.Time `bson:"acceptedAt,omitempty"`
	CreatedAt             time.Time  `bson:"createdAt"`
	UpdatedAt             time.Time  `bson:"updatedAt"`
}

type tradeDoc struct {
	ID                string    `bson:"_id"`
	ListingID         string    `bson:"listingId"`
	CardID            string    `bson:"cardId"`
	CardDisplayName   string    `bson:"cardDisplayName,omitempty"`
	Type              string    `bson:"type"`
	PriceCents        int64     `bson:"priceCents"`
	Currency          string    `bson:"currency"`
	Quantity          int64     `bson:"quantity"`
	BuyerUID          string    `bson:"buyerUid"`
	BuyerDisplayName  string    `bson:"buyerDisplayName,omitempty"`
	SellerUID         string    `bson:"sellerUid"`
	SellerDisplayName string    `bson:"sellerDisplayName,omitempty"`
	Participants      []string  `bson:"participants"`
	Status            string    `bson:"status"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func fromListing(l *marketplace.Listing) *listingDoc {
	return &listingDoc{
		ID:                    l.ID,
		Type:                  string(l.Type),
		Status:                string(l.Status),
		CardID:                l.CardID,
		CardDisplayName:       l.CardDisplayName,
		PriceCents:            l.PriceCents,
		Currency:              l.Currency,
		Quantity:              l.Quantity,
		CreatedByUID:          l.CreatedByUID,
		CreatedByDisplayName:  l.CreatedByDisplayName,
		AcceptedByUID:         l.AcceptedByUID,
		AcceptedByDisplayName: l.AcceptedByDisplayName,
		AcceptedAt:            l.AcceptedAt,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

func (d *listingDoc) toDomain() *marketplace.Listing {
	l := &marketplace.Listing{
		ID:                    d.ID,
		Type:                  marketplace.ListingType(d.Type),
		Status:                marketplace.ListingStatus(d.Status),
		CardID:                d.CardID,
		CardDisplayName:       d.CardDisplayName,
		PriceCents:            d.PriceCents,
		Currency:              d.Currency,
		Quantity:              d.Quantity,
		CreatedByUID:          d.CreatedByUID,
		CreatedByDisplayName:  d.CreatedByDisplayName,
		AcceptedByUID:         d.AcceptedByUID,
		AcceptedByDisplayName: d.AcceptedByDisplayName,
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}
	if d.AcceptedAt != nil {
		at := d.AcceptedAt.UTC()
		l.AcceptedAt = &at
	}
	return l
}

func fromTrade(t *marketplace.Trade) *tradeDoc {
	return &tradeDoc{
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

func (d *tradeDoc) toDomain() *marketplace.Trade {
	return &marketplace.Trade{
		ID:                d.ID,
		ListingID:         d.ListingID,
		CardID:            d.CardID,
		CardDisplayName:   d.CardDisplayName,
		Type:              marketplace.ListingType(d.Type),
		PriceCents:        d.PriceCents,
		Currency:          d.Currency,
		Quantity:          d.Quantity,
		BuyerUID:          d.BuyerUID,
		BuyerDisplayName:  d.BuyerDisplayName,
		SellerUID:         d.SellerUID,
		SellerDisplayName: d.SellerDisplayName,
		Participants:      slices.Clone(d.Participants),
		Status:            marketplace.TradeStatus(d.Status),
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}
