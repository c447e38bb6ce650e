package models

import (
	"encoding/json"
	"time"
)

// IdentityClaims is the signed payload of an identity token
type IdentityClaims struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateListingRequest is the createListing payload. Numeric fields stay raw
// so that strings and fractions are rejected rather than coerced.
type CreateListingRequest struct {
	Type       string          `json:"type"`
	CardID     string          `json:"cardId"`
	PriceCents json.RawMessage `json:"priceCents"`
	Currency   *string         `json:"currency"`
	Quantity   json.RawMessage `json:"quantity"`
}

type UpdateTradeStatusRequest struct {
	Status string `json:"status"`
}

type ListingCreatedResponse struct {
	ListingID string `json:"listingId"`
}

type TradeCreatedResponse struct {
	TradeID string `json:"tradeId"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// CardDTO represents a catalog card for pickers
type CardDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Set    string `json:"set,omitempty"`
	Rarity string `json:"rarity,omitempty"`
}
