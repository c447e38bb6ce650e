package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

// CreateListing handles POST /api/listings
func CreateListing(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requester := utils.Identity(c)
		if err := marketplace.RequireIdentity(requester); err != nil {
			return utils.SendDomainError(c, err)
		}

		var body models.CreateListingRequest
		if err := decodeJSON(c.Body(), &body); err != nil {
			return utils.SendBadRequest(c, "request body must be a JSON object")
		}

		req, err := toCreateRequest(body)
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		listingID, err := webApp.Listings.CreateListing(c.Context(), requester, req)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, models.ListingCreatedResponse{ListingID: listingID}, "Listing created")
	}
}

// toCreateRequest applies the payload defaults: currency USD and quantity 1
// when omitted. Present values are passed through for strict validation.
func toCreateRequest(body models.CreateListingRequest) (marketplace.CreateListingRequest, error) {
	priceCents, err := marketplace.AsInt(body.PriceCents, "priceCents")
	if err != nil {
		return marketplace.CreateListingRequest{}, err
	}

	quantity := marketplace.SupportedQuantity
	if !absent(body.Quantity) {
		if quantity, err = marketplace.AsInt(body.Quantity, "quantity"); err != nil {
			return marketplace.CreateListingRequest{}, err
		}
	}

	currency := marketplace.CurrencyUSD
	if body.Currency != nil {
		currency = *body.Currency
	}

	return marketplace.CreateListingRequest{
		Type:       marketplace.ListingType(body.Type),
		CardID:     body.CardID,
		PriceCents: priceCents,
		Currency:   currency,
		Quantity:   quantity,
	}, nil
}

// CancelListing handles POST /api/listings/:id/cancel
func CancelListing(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := webApp.Listings.CancelListing(c.Context(), utils.Identity(c), c.Params("id")); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, models.OKResponse{OK: true}, "Listing cancelled")
	}
}

// AcceptListing handles POST /api/listings/:id/accept
func AcceptListing(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tradeID, err := webApp.Listings.AcceptListing(c.Context(), utils.Identity(c), c.Params("id"))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, models.TradeCreatedResponse{TradeID: tradeID}, "Listing accepted")
	}
}

// OpenListings handles GET /api/listings?cardId=
func OpenListings(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listings, err := webApp.Listings.OpenListings(c.Context(), c.Query("cardId"))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, listings, "")
	}
}

// ListingDetail handles GET /api/listings/:id
func ListingDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listing, err := webApp.Listings.Listing(c.Context(), c.Params("id"))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, listing, "")
	}
}

// MyListings handles GET /api/me/listings
func MyListings(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listings, err := webApp.Listings.MyListings(c.Context(), utils.Identity(c))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, listings, "")
	}
}
