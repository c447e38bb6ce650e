package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storydeck/marketplace/storydeck"
	"github.com/storydeck/marketplace/storydeck/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath string
	cfg        *storydeck.Config
)

var rootCmd = &cobra.Command{
	Use:           "storydeck",
	Short:         "StoryDeck card marketplace",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := storydeck.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.AddSource)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the command line with the given build metadata.
func Execute(buildVersion, buildCommit string) error {
	version = buildVersion
	commit = buildCommit
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	return rootCmd.Execute()
}
