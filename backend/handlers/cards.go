package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/storydeck/config"
)

// SearchCards handles GET /api/cards?q=&limit=
func SearchCards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webApp.Catalog == nil {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "CATALOG_UNAVAILABLE",
				"card catalog is not configured", nil)
		}

		limit := c.QueryInt("limit", config.DefaultSearchResults)
		if limit < 1 || limit > config.MaxSearchResults {
			return utils.SendBadRequest(c, "limit must be between 1 and 100")
		}

		cards := webApp.Catalog.Search(c.Query("q"), limit)
		out := make([]models.CardDTO, len(cards))
		for i, card := range cards {
			out[i] = models.CardDTO{
				ID:     card.ID,
				Name:   card.Name,
				Set:    card.Set,
				Rarity: card.Rarity,
			}
		}
		return utils.SendSuccess(c, out, "")
	}
}
