package marketplace

import "context"

//go:generate mockgen -source=store.go -destination=mock/store.go -package=mock

// Store is the persistence port the marketplace services run against.
// Implementations must give RunInTransaction serializable semantics: two
// transactions that read and then write the same listing or trade cannot
// both commit.
type Store interface {
	// InsertListing persists a new listing and returns its assigned id.
	InsertListing(ctx context.Context, listing *Listing) (string, error)

	// RunInTransaction runs fn inside one atomic, serializable unit of work.
	// The unit commits only when fn returns nil. Errors returned by fn are
	// passed back unchanged.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetListing(ctx context.Context, id string) (*Listing, error)
	GetTrade(ctx context.Context, id string) (*Trade, error)

	// OpenListings returns OPEN listings newest first, limited to cardID when it is non-empty.
	OpenListings(ctx context.Context, cardID string) ([]Listing, error)

	// ListingsByCreator returns every listing created by uid, newest first.
	ListingsByCreator(ctx context.Context, uid string) ([]Listing, error)

	// TradesForParticipant returns every trade uid takes part in, newest first.
	TradesForParticipant(ctx context.Context, uid string) ([]Trade, error)

	Ping(ctx context.Context) error
}

// Tx is the view of the store inside RunInTransaction. Reads made through a
// Tx take part in the transaction's conflict detection.
type Tx interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	// UpdateListing writes listing only if its stored status is still from,
	// and returns ErrConflict otherwise.
	UpdateListing(ctx context.Context, listing *Listing, from ListingStatus) error
	GetTrade(ctx context.Context, id string) (*Trade, error)
	UpdateTrade(ctx context.Context, trade *Trade, from TradeStatus) error
	// InsertTrade persists a new trade and returns its assigned id.
	InsertTrade(ctx context.Context, trade *Trade) (string, error)
}

// AllCards is published by a ChangeSource that may have missed changes, for
// example after reconnecting. Every subscription is refreshed.
const AllCards = ""

// ChangeSource publishes the card id of every listing that was created or
// changed, or AllCards when it cannot tell which cards changed.
type ChangeSource interface {
	ListingChanges(ctx context.Context) (<-chan string, error)
}

// CardNamer resolves catalog display names for card ids.
type CardNamer interface {
	DisplayName(cardID string) (string, bool)
}
