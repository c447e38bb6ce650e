package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/storydeck/marketplace/backend/utils"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck/config"
)

// ListingStream handles GET /api/listings/stream?cardId= as Server-Sent
// Events. Every event carries the full open-listing snapshot.
func ListingStream(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID := c.Query("cardId")

		ctx, cancel := context.WithCancel(webApp.baseContext())
		snapshots, err := webApp.Feed.Subscribe(ctx, cardID)
		if err != nil {
			cancel()
			return utils.SendDomainError(c, err)
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			streamSnapshots(w, snapshots, config.FeedKeepAliveInterval)
			slog.Debug("Listing stream closed",
				slog.String("type", "http"),
				slog.String("card_id", cardID),
			)
		}))
		return nil
	}
}

// streamSnapshots writes snapshots until the channel closes or the client
// goes away, with a comment line every keepAlive to hold idle proxies open.
func streamSnapshots(w *bufio.Writer, snapshots <-chan []marketplace.Listing, keepAlive time.Duration) {
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := writeEvent(w, "listings", snap); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w *bufio.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}
