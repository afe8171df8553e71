package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"cozeauth/pkg/logging"
	"cozeauth/pkg/oauth"
)

var (
	tokenTTL  time.Duration
	tokenSave bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token with the JWT-bearer grant",
	Long: `Token signs a JWT assertion with the configured RSA private key and
exchanges it for an access token. This is the server-to-server flow:
no user interaction is required.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", oauth.DefaultTokenTTL, "requested token lifetime")
	tokenCmd.Flags().BoolVar(&tokenSave, "save", false, "save the token to the credential store")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateJWT(); err != nil {
		return err
	}

	keyPEM, err := readPrivateKey(cfg)
	if err != nil {
		return err
	}

	app, err := oauth.NewJWTOAuthApp(cfg.ClientID, keyPEM, cfg.PublicKeyID, appOptions(cfg)...)
	if err != nil {
		return err
	}

	logging.Debug("Token", "requesting access token with ttl %s", tokenTTL)
	token, err := app.GetAccessToken(cmd.Context(), tokenTTL)
	if err != nil {
		return err
	}

	if tokenSave {
		store, err := newStore(cfg)
		if err != nil {
			return err
		}
		if err := saveCredential(store, cfg, token); err != nil {
			return err
		}
	}

	infof("Token expires at %s", token.ExpiresAt().Format("2006-01-02 15:04:05"))
	printToken(token)
	return nil
}
