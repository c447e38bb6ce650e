package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// CreateSession handles POST /api/session: a verified identity token is
// moved into the session cookie for browser clients.
func CreateSession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body sessionRequest
		if err := decodeJSON(c.Body(), &body); err != nil || body.Token == "" {
			return utils.SendBadRequest(c, "token is required")
		}

		claims, err := webApp.SessionService.Verify(body.Token)
		if err != nil {
			slog.Warn("Session login rejected",
				slog.String("type", "http"),
				slog.String("ip", utils.GetIPAddress(c)),
				slog.String("error", err.Error()),
			)
			return utils.SendError(c, fiber.StatusUnauthorized, string(marketplace.KindUnauthenticated),
				"invalid or expired token", nil)
		}

		webApp.SessionService.SetSessionCookie(c, body.Token, time.Until(claims.ExpiresAt))
		id := marketplace.NewIdentity(claims.UID, claims.Name, claims.Email)
		return utils.SendSuccess(c, sessionResponse{
			UID:         id.UID,
			DisplayName: id.DisplayName,
			ExpiresAt:   claims.ExpiresAt,
		}, "Session created")
	}
}

// CurrentSession handles GET /api/session
func CurrentSession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.Identity(c)
		if err := marketplace.RequireIdentity(id); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, sessionResponse{UID: id.UID, DisplayName: id.DisplayName}, "")
	}
}

// DestroySession handles DELETE /api/session
func DestroySession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.SessionService.DestroySession(c)
		return utils.SendSuccess(c, nil, "Logged out successfully")
	}
}
