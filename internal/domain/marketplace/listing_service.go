package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/storydeck/marketplace/storydeck/logger"
)

// DefaultTxTimeout bounds a single accept or cancel transaction.
const DefaultTxTimeout = 10 * time.Second

type serviceOptions struct {
	now       func() time.Time
	txTimeout time.Duration
	namer     CardNamer
}

// Option configures a ListingService or TradeService.
type Option func(*serviceOptions)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// WithTxTimeout overrides DefaultTxTimeout.
func WithTxTimeout(d time.Duration) Option {
	return func(o *serviceOptions) {
		if d > 0 {
			o.txTimeout = d
		}
	}
}

// WithCardNamer lets CreateListing stamp catalog display names onto listings.
func WithCardNamer(namer CardNamer) Option {
	return func(o *serviceOptions) { o.namer = namer }
}

func buildOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		now:       func() time.Time { return time.Now().UTC() },
		txTimeout: DefaultTxTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CreateListingRequest carries already-typed listing fields. Transports are
// responsible for turning untyped numbers into integers with AsInt and for
// applying the USD and quantity 1 defaults.
type CreateListingRequest struct {
	Type       ListingType
	CardID     string
	PriceCents int64
	Currency   string
	Quantity   int64
}

// ListingService owns the listing lifecycle: create, cancel and accept.
type ListingService struct {
	store Store
	opts  serviceOptions
}

func NewListingService(store Store, opts ...Option) *ListingService {
	return &ListingService{store: store, opts: buildOptions(opts)}
}

// CreateListing validates req and persists it as an OPEN listing owned by requester.
func (s *ListingService) CreateListing(ctx context.Context, requester *Identity, req CreateListingRequest) (string, error) {
	if err := RequireIdentity(requester); err != nil {
		return "", err
	}
	if err := AssertListingType(req.Type); err != nil {
		return "", err
	}
	if err := AssertCardID(req.CardID); err != nil {
		return "", err
	}
	if err := AssertUSDCurrency(req.Currency); err != nil {
		return "", err
	}
	if err := AssertPriceCents(req.PriceCents); err != nil {
		return "", err
	}
	if err := AssertQuantity(req.Quantity); err != nil {
		return "", err
	}

	now := s.opts.now()
	listing := &Listing{
		Type:                 req.Type,
		Status:               ListingOpen,
		CardID:               req.CardID,
		PriceCents:           req.PriceCents,
		Currency:             req.Currency,
		Quantity:             req.Quantity,
		CreatedByUID:         requester.UID,
		CreatedByDisplayName: requester.DisplayName,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if s.opts.namer != nil {
		if name, ok := s.opts.namer.DisplayName(req.CardID); ok {
			listing.CardDisplayName = name
		}
	}

	id, err := s.store.InsertListing(ctx, listing)
	if err != nil {
		return "", storageFailure("create listing", err)
	}

	logger.LogMarket("Listing created",
		slog.String("listing_id", id),
		slog.String("listing_type", string(req.Type)),
		slog.String("card_id", req.CardID),
		slog.Int64("price_cents", req.PriceCents),
		slog.String("uid", requester.UID),
	)
	return id, nil
}

// CancelListing withdraws an OPEN listing. Only its creator may cancel it.
func (s *ListingService) CancelListing(ctx context.Context, requester *Identity, listingID string) error {
	if err := RequireIdentity(requester); err != nil {
		return err
	}
	if err := assertID(listingID, "listingId"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.txTimeout)
	defer cancel()

	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		listing, err := loadListing(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != ListingOpen {
			return newError(KindInvalidState, "listing is %s, only OPEN listings can be cancelled", listing.Status)
		}
		if listing.CreatedByUID != requester.UID {
			return newError(KindPermissionDenied, "only the creator can cancel this listing")
		}
		if err := revalidate(listing); err != nil {
			return err
		}

		listing.Status = ListingCancelled
		listing.UpdatedAt = s.opts.now()
		return tx.UpdateListing(ctx, listing, ListingOpen)
	})
	if err != nil {
		return storageFailure("cancel listing", err)
	}

	logger.LogMarket("Listing cancelled",
		slog.String("listing_id", listingID),
		slog.String("uid", requester.UID),
	)
	return nil
}

// AcceptListing takes the other side of an OPEN listing. In one serializable
// transaction it marks the listing ACCEPTED and creates the PENDING trade, and
// returns the trade id.
func (s *ListingService) AcceptListing(ctx context.Context, requester *Identity, listingID string) (string, error) {
	if err := RequireIdentity(requester); err != nil {
		return "", err
	}
	if err := assertID(listingID, "listingId"); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.txTimeout)
	defer cancel()

	var tradeID string
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		// Reset on every attempt: stores may run fn more than once.
		tradeID = ""

		listing, err := loadListing(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != ListingOpen {
			return newError(KindInvalidState, "listing is %s, only OPEN listings can be accepted", listing.Status)
		}
		if listing.CreatedByUID == requester.UID {
			return newError(KindInvalidState, "you cannot accept your own listing")
		}
		if err := revalidate(listing); err != nil {
			return err
		}

		parties, err := settle(listing, requester)
		if err != nil {
			return err
		}

		now := s.opts.now()
		trade := &Trade{
			ListingID:         listing.ID,
			CardID:            listing.CardID,
			CardDisplayName:   listing.CardDisplayName,
			Type:              listing.Type,
			PriceCents:        listing.PriceCents,
			Currency:          listing.Currency,
			Quantity:          listing.Quantity,
			BuyerUID:          parties.buyer.uid,
			BuyerDisplayName:  parties.buyer.name,
			SellerUID:         parties.seller.uid,
			SellerDisplayName: parties.seller.name,
			Participants:      []string{parties.buyer.uid, parties.seller.uid},
			Status:            TradePending,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		listing.Status = ListingAccepted
		listing.AcceptedByUID = requester.UID
		listing.AcceptedByDisplayName = requester.DisplayName
		listing.AcceptedAt = &now
		listing.UpdatedAt = now
		if err := tx.UpdateListing(ctx, listing, ListingOpen); err != nil {
			return err
		}

		id, err := tx.InsertTrade(ctx, trade)
		if err != nil {
			return err
		}
		tradeID = id
		return nil
	})
	if err != nil {
		return "", storageFailure("accept listing", err)
	}

	logger.LogMarket("Listing accepted",
		slog.String("listing_id", listingID),
		slog.String("trade_id", tradeID),
		slog.String("uid", requester.UID),
	)
	return tradeID, nil
}

// Listing returns a single listing by id.
func (s *ListingService) Listing(ctx context.Context, listingID string) (*Listing, error) {
	if err := assertID(listingID, "listingId"); err != nil {
		return nil, err
	}
	listing, err := s.store.GetListing(ctx, listingID)
	if errors.Is(err, ErrNotFound) {
		return nil, newError(KindNotFound, "listing %s not found", listingID)
	}
	if err != nil {
		return nil, storageFailure("get listing", err)
	}
	return listing, nil
}

// OpenListings returns the OPEN order book, newest first, optionally for one card.
func (s *ListingService) OpenListings(ctx context.Context, cardID string) ([]Listing, error) {
	listings, err := s.store.OpenListings(ctx, cardID)
	if err != nil {
		return nil, storageFailure("list open listings", err)
	}
	return listings, nil
}

// MyListings returns every listing the requester created, newest first.
func (s *ListingService) MyListings(ctx context.Context, requester *Identity) ([]Listing, error) {
	if err := RequireIdentity(requester); err != nil {
		return nil, err
	}
	listings, err := s.store.ListingsByCreator(ctx, requester.UID)
	if err != nil {
		return nil, storageFailure("list my listings", err)
	}
	return listings, nil
}

func loadListing(ctx context.Context, tx Tx, listingID string) (*Listing, error) {
	listing, err := tx.GetListing(ctx, listingID)
	if errors.Is(err, ErrNotFound) {
		return nil, newError(KindNotFound, "listing %s not found", listingID)
	}
	return listing, err
}

// revalidate guards transitions against listings written before the current rules.
func revalidate(l *Listing) error {
	if err := AssertUSDCurrency(l.Currency); err != nil {
		return err
	}
	if err := AssertPriceCents(l.PriceCents); err != nil {
		return err
	}
	if err := AssertListingType(l.Type); err != nil {
		return err
	}
	return AssertQuantity(l.Quantity)
}

type party struct {
	uid  string
	name string
}

type settlement struct {
	buyer  party
	seller party
}

// settle decides who pays: an ASK creator sells to the accepter, a BID
// creator buys from the accepter.
func settle(l *Listing, accepter *Identity) (settlement, error) {
	creator := party{uid: l.CreatedByUID, name: displayNameOr(l.CreatedByDisplayName, anonymousDisplayName)}
	taker := party{uid: accepter.UID, name: accepter.DisplayName}

	switch l.Type {
	case ListingAsk:
		return settlement{buyer: taker, seller: creator}, nil
	case ListingBid:
		return settlement{buyer: creator, seller: taker}, nil
	default:
		return settlement{}, newError(KindInvalidListingType, "listing type %q cannot be settled", l.Type)
	}
}
