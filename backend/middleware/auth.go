package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/services"
	"github.com/storydeck/marketplace/backend/utils"
)

// OptionalAuth attaches the caller's identity when a valid token is present.
// Requests without one continue anonymously; the marketplace services decide
// which operations require sign-in.
func OptionalAuth(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessions.Identity(c)
		switch {
		case err == nil:
			utils.SetIdentity(c, id)
		case errors.Is(err, services.ErrNoToken):
		default:
			slog.Debug("Optional auth: rejected identity token",
				slog.String("type", "http"),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}
		return c.Next()
	}
}
