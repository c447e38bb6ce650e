// Package backend is the HTTP adapter over the marketplace services.
package backend

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/storydeck/marketplace/backend/handlers"
	"github.com/storydeck/marketplace/backend/middleware"
	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/storydeck/config"
)

// NewApp builds the fiber application with middleware and routes installed
func NewApp(webApp *handlers.WebApp) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "StoryDeck Marketplace API",
		ServerHeader: "StoryDeck",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    config.MaxRequestSize,
		ReadTimeout:  config.RequestTimeout,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		// event streams must not be buffered by the compressor
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/listings/stream"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     webApp.Config.AllowedOrigins(),
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.OptionalAuth(webApp.SessionService))
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, webApp)
	return app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	api := app.Group("/api")
	mutate := middleware.MutationRateLimit()

	session := api.Group("/session")
	session.Get("/", handlers.CurrentSession(webApp))
	session.Post("/", mutate, handlers.CreateSession(webApp))
	session.Delete("/", handlers.DestroySession(webApp))

	listings := api.Group("/listings")
	listings.Get("/", handlers.OpenListings(webApp))
	listings.Get("/stream", handlers.ListingStream(webApp))
	listings.Get("/:id", handlers.ListingDetail(webApp))
	listings.Post("/", mutate, handlers.CreateListing(webApp))
	listings.Post("/:id/cancel", mutate, handlers.CancelListing(webApp))
	listings.Post("/:id/accept", mutate, handlers.AcceptListing(webApp))

	trades := api.Group("/trades")
	trades.Get("/:id", handlers.TradeDetail(webApp))
	trades.Post("/:id/status", mutate, handlers.UpdateTradeStatus(webApp))

	me := api.Group("/me")
	me.Get("/listings", handlers.MyListings(webApp))
	me.Get("/trades", handlers.MyTrades(webApp))

	api.Get("/cards", handlers.SearchCards(webApp))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return utils.SendNotFound(c, "The requested endpoint does not exist")
	})
}
