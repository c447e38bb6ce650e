package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/storydeck/config"
)

// HealthCheck handles GET /health
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := models.NewHealthCheck(webApp.Config.Version, webApp.Config.Commit)

		ctx, cancel := context.WithTimeout(c.Context(), config.HealthCheckTimeout)
		defer cancel()
		if err := webApp.Store.Ping(ctx); err != nil {
			health.AddComponent("store", "unhealthy", err.Error(), nil)
		} else {
			health.AddComponent("store", "healthy", "", map[string]any{
				"driver": webApp.Config.Config.Store.Driver,
			})
		}

		if webApp.Catalog != nil {
			health.AddComponent("catalog", "healthy", "", map[string]any{"cards": webApp.Catalog.Len()})
		} else {
			health.AddComponent("catalog", "disabled", "", nil)
		}
		if webApp.Feed != nil {
			health.AddComponent("feed", "healthy", "", map[string]any{"subscribers": webApp.Feed.Subscribers()})
		}

		if health.Status != "healthy" {
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, health)
		}
		return utils.SendJSON(c, fiber.StatusOK, health)
	}
}
