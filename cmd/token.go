package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	webconfig "github.com/storydeck/marketplace/backend/config"
	"github.com/storydeck/marketplace/backend/services"
	"github.com/storydeck/marketplace/storydeck/config"
)

var (
	tokenUID   string
	tokenName  string
	tokenEmail string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "mint an identity token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions := services.NewSessionService(webconfig.NewWebAppConfig(cfg, version, commit))
		token, err := sessions.Mint(tokenUID, tokenName, tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUID, "uid", "", "user id the token identifies")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email, used as display name when --name is empty")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", config.DefaultTokenTTL, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("uid")
	rootCmd.AddCommand(tokenCmd)
}
