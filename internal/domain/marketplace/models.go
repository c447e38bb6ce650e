package marketplace

import (
	"slices"
	"time"
)

type ListingType string

const (
	// ListingBid is a buy order: the creator wants to buy the card.
	ListingBid ListingType = "BID"
	// ListingAsk is a sell order: the creator wants to sell the card.
	ListingAsk ListingType = "ASK"
)

type ListingStatus string

const (
	ListingOpen      ListingStatus = "OPEN"
	ListingAccepted  ListingStatus = "ACCEPTED"
	ListingCancelled ListingStatus = "CANCELLED"
)

type TradeStatus string

const (
	TradePending   TradeStatus = "PENDING"
	TradeCompleted TradeStatus = "COMPLETED"
	TradeCancelled TradeStatus = "CANCELLED"
)

const (
	CurrencyUSD = "USD"

	// MaxPriceCents is the sanity ceiling for a single listing price.
	MaxPriceCents int64 = 10_000_000

	// SupportedQuantity is the only quantity a listing can carry.
	SupportedQuantity int64 = 1

	anonymousDisplayName = "Anonymous"
)

// Listing is a standing offer to buy or sell one unit of a card at a fixed price.
type Listing struct {
	ID                    string        `json:"id"`
	Type                  ListingType   `json:"type"`
	Status                ListingStatus `json:"status"`
	CardID                string        `json:"cardId"`
	CardDisplayName       string        `json:"cardDisplayName,omitempty"`
	PriceCents            int64         `json:"priceCents"`
	Currency              string        `json:"currency"`
	Quantity              int64         `json:"quantity"`
	CreatedByUID          string        `json:"createdByUid"`
	CreatedByDisplayName  string        `json:"createdByDisplayName"`
	AcceptedByUID         string        `json:"acceptedByUid,omitempty"`
	AcceptedByDisplayName string        `json:"acceptedByDisplayName,omitempty"`
	AcceptedAt            *time.Time    `json:"acceptedAt,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// Trade is the settlement record spawned when a listing is accepted.
type Trade struct {
	ID                string      `json:"id"`
	ListingID         string      `json:"listingId"`
	CardID            string      `json:"cardId"`
	CardDisplayName   string      `json:"cardDisplayName,omitempty"`
	Type              ListingType `json:"type"`
	PriceCents        int64       `json:"priceCents"`
	Currency          string      `json:"currency"`
	Quantity          int64       `json:"quantity"`
	BuyerUID          string      `json:"buyerUid"`
	BuyerDisplayName  string      `json:"buyerDisplayName"`
	SellerUID         string      `json:"sellerUid"`
	SellerDisplayName string      `json:"sellerDisplayName"`
	Participants      []string    `json:"participants"`
	Status            TradeStatus `json:"status"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// HasParticipant reports whether uid is the buyer or the seller of the trade.
func (t *Trade) HasParticipant(uid string) bool {
	return uid != "" && slices.Contains(t.Participants, uid)
}

// Clone returns a deep copy of the listing.
func (l *Listing) Clone() *Listing {
	c := *l
	if l.AcceptedAt != nil {
		at := *l.AcceptedAt
		c.AcceptedAt = &at
	}
	return &c
}

// Clone returns a deep copy of the trade.
func (t *Trade) Clone() *Trade {
	c := *t
	c.Participants = slices.Clone(t.Participants)
	return &c
}

func (s TradeStatus) terminal() bool {
	switch s {
	case TradeCompleted, TradeCancelled:
		return true
	default:
		return false
	}
}
