package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

// UpdateTradeStatus handles POST /api/trades/:id/status
func UpdateTradeStatus(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requester := utils.Identity(c)
		if err := marketplace.RequireIdentity(requester); err != nil {
			return utils.SendDomainError(c, err)
		}

		var body models.UpdateTradeStatusRequest
		if err := decodeJSON(c.Body(), &body); err != nil {
			return utils.SendBadRequest(c, "request body must be a JSON object")
		}

		err := webApp.Trades.UpdateTradeStatus(c.Context(), requester, c.Params("id"), marketplace.TradeStatus(body.Status))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, models.OKResponse{OK: true}, "Trade updated")
	}
}

// TradeDetail handles GET /api/trades/:id
func TradeDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trade, err := webApp.Trades.Trade(c.Context(), utils.Identity(c), c.Params("id"))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, trade, "")
	}
}

// MyTrades handles GET /api/me/trades
func MyTrades(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trades, err := webApp.Trades.MyTrades(c.Context(), utils.Identity(c))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, trades, "")
	}
}
