package main

import (
	"log/slog"
	"os"

	"github.com/storydeck/marketplace/cmd"
	"github.com/storydeck/marketplace/storydeck/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	logger.Setup("info", "text", false)

	if err := cmd.Execute(version, commit); err != nil {
		slog.Error("Command failed",
			slog.String("type", "sys"),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
