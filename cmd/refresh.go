package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cozeauth/internal/credstore"
	"cozeauth/pkg/logging"
	"cozeauth/pkg/oauth"
)

var refreshTokenFlag string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh a stored access token",
	Long: `Refresh exchanges the refresh token of a stored credential for a new
access token and updates the store. A refresh token can also be passed
explicitly with --refresh-token.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().StringVar(&refreshTokenFlag, "refresh-token", "", "refresh token to use instead of the stored one")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	refreshToken := refreshTokenFlag
	if refreshToken == "" {
		cred, err := store.Load(credentialName(cfg))
		if err != nil {
			if errors.Is(err, credstore.ErrNotFound) {
				return fmt.Errorf("no stored credential for %s, run login first", cfg.BaseURL)
			}
			return err
		}
		if cred.Token.RefreshToken == "" {
			return fmt.Errorf("stored credential has no refresh token")
		}
		refreshToken = cred.Token.RefreshToken
	}

	ctx := cmd.Context()
	logging.Debug("Refresh", "refreshing token for client %s at %s", cfg.ClientID, cfg.BaseURL)

	// Web apps hold a client secret and refresh with it; PKCE apps refresh
	// with the bare client ID.
	var token *oauth.OAuthToken
	if cfg.ClientSecret != "" {
		app, err := oauth.NewWebOAuthApp(cfg.ClientID, cfg.ClientSecret, appOptions(cfg)...)
		if err != nil {
			return err
		}
		token, err = app.RefreshAccessToken(ctx, refreshToken)
		if err != nil {
			return err
		}
	} else {
		app, err := oauth.NewPKCEOAuthApp(cfg.ClientID, appOptions(cfg)...)
		if err != nil {
			return err
		}
		token, err = app.RefreshAccessToken(ctx, refreshToken)
		if err != nil {
			return err
		}
	}

	if err := saveCredential(store, cfg, token); err != nil {
		return err
	}

	infof("Token refreshed, expires at %s", token.ExpiresAt().Format("2006-01-02 15:04:05"))
	printToken(token)
	return nil
}
