package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

type Listing struct {
	bun.BaseModel `bun:"table:listings,alias:l"`

	ID                    string     `bun:"id,pk,type:uuid"`
	Type                  string     `bun:"type,notnull"`
	Status                string     `bun:"status,notnull"`
	CardID                string     `bun:"card_id,notnull"`
	CardDisplayName       string     `bun:"card_display_name,nullzero"`
	PriceCents            int64      `bun:"price_cents,notnull"`
	Currency              string     `bun:"currency,notnull"`
	Quantity              int64      `bun:"quantity,notnull"`
	CreatedByUID          string     `bun:"created_by_uid,notnull"`
	CreatedByDisplayName  string     `bun:"created_by_display_name,nullzero"`
	AcceptedByUID         string     `bun:"accepted_by_uid,nullzero"`
	AcceptedByDisplayName string     `bun:"accepted_by_display_name,nullzero"`
	AcceptedAt            *time.Time `bun:"accepted_at"`
	CreatedAt             time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt             time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

func NewListing(l *marketplace.Listing) *Listing {
	return &Listing{
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

func (m *Listing) ToDomain() *marketplace.Listing {
	l := &marketplace.Listing{
		ID:                    m.ID,
		Type:                  marketplace.ListingType(m.Type),
		Status:                marketplace.ListingStatus(m.Status),
		CardID:                m.CardID,
		CardDisplayName:       m.CardDisplayName,
		PriceCents:            m.PriceCents,
		Currency:              m.Currency,
		Quantity:              m.Quantity,
		CreatedByUID:          m.CreatedByUID,
		CreatedByDisplayName:  m.CreatedByDisplayName,
		AcceptedByUID:         m.AcceptedByUID,
		AcceptedByDisplayName: m.AcceptedByDisplayName,
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
	if m.AcceptedAt != nil {
		at := m.AcceptedAt.UTC()
		l.AcceptedAt = &at
	}
	return l
}
