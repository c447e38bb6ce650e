package utils

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
)

const identityLocal = "identity"

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data any, message string) error {
	return SendJSON(c, http.StatusOK, models.NewSuccessResponse(data, message))
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data any, message string) error {
	return SendJSON(c, http.StatusCreated, models.NewSuccessResponse(data, message))
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	return SendJSON(c, statusCode, models.NewErrorResponse(code, message, details))
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusBadRequest, string(marketplace.KindInvalidArgument), message, nil)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// StatusForKind maps a marketplace error kind onto an HTTP status
func StatusForKind(kind marketplace.ErrorKind) int {
	switch kind {
	case marketplace.KindUnauthenticated:
		return http.StatusUnauthorized
	case marketplace.KindInvalidArgument:
		return http.StatusBadRequest
	case marketplace.KindUnsupportedCurrency,
		marketplace.KindInvalidListingType,
		marketplace.KindPriceOutOfRange,
		marketplace.KindUnsupportedQuantity:
		return http.StatusUnprocessableEntity
	case marketplace.KindNotFound:
		return http.StatusNotFound
	case marketplace.KindInvalidState:
		return http.StatusConflict
	case marketplace.KindPermissionDenied:
		return http.StatusForbidden
	case marketplace.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SendDomainError renders err using its marketplace kind. Storage failures
// are logged and reported without their cause.
func SendDomainError(c *fiber.Ctx, err error) error {
	var domainErr *marketplace.Error
	if !errors.As(err, &domainErr) {
		slog.Error("Unclassified handler error",
			slog.String("type", "http"),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error", nil)
	}

	message := domainErr.Message
	if domainErr.Kind == marketplace.KindStorage {
		slog.Error("Storage failure",
			slog.String("type", "http"),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		message = "storage temporarily unavailable"
	}
	return SendError(c, StatusForKind(domainErr.Kind), string(domainErr.Kind), message, nil)
}

// SetIdentity stores the authenticated caller on the request
func SetIdentity(c *fiber.Ctx, id *marketplace.Identity) {
	c.Locals(identityLocal, id)
}

// Identity returns the authenticated caller, or nil for anonymous requests
func Identity(c *fiber.Ctx) *marketplace.Identity {
	id, _ := c.Locals(identityLocal).(*marketplace.Identity)
	return id
}

// GetIPAddress extracts the client IP address
func GetIPAddress(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := c.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.IP()
}

// GetUserAgent extracts the user agent
func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
