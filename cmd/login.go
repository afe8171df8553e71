package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cozeauth/internal/browserauth"
	"cozeauth/pkg/logging"
	"cozeauth/pkg/oauth"
)

var (
	loginNoBrowser bool
	loginPlain     bool
	loginPort      int
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in through the browser with PKCE",
	Long: `Login opens the platform's authorization page in the browser and runs a
local callback server to capture the authorization code. The code is
exchanged for an access token using PKCE, so no client secret is needed.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "print the authorization URL instead of opening a browser")
	loginCmd.Flags().BoolVar(&loginPlain, "plain", false, "use the plain code challenge method instead of S256")
	loginCmd.Flags().IntVar(&loginPort, "port", 0, "local callback port (default from config)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := oauth.NewPKCEOAuthApp(cfg.ClientID, appOptions(cfg)...)
	if err != nil {
		return err
	}

	verifier, err := oauth.GenerateCodeVerifier()
	if err != nil {
		return err
	}
	state, err := oauth.GenerateState()
	if err != nil {
		return err
	}

	method := oauth.CodeChallengeS256
	if loginPlain {
		method = oauth.CodeChallengePlain
	}

	port := loginPort
	if port == 0 {
		port = cfg.RedirectPort
	}
	server := browserauth.NewCallbackServer(port)

	ctx := cmd.Context()
	redirectURI, err := server.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer server.Stop()

	authURL, err := app.OAuthURL(redirectURI, state, verifier, method, urlOpts(cfg)...)
	if err != nil {
		return err
	}
	logging.Debug("Login", "built authorization url for client %s (method %s)", cfg.ClientID, method)

	if loginNoBrowser {
		infof("Open the following URL in your browser:\n\n  %s", authURL)
	} else {
		infof("Opening browser for authorization...")
		if err := browserauth.OpenBrowser(authURL); err != nil {
			infof("Could not open browser, visit:\n\n  %s", authURL)
		}
	}
	infof("Waiting for authorization callback on %s", redirectURI)

	result, err := server.Wait(ctx)
	if err != nil {
		return err
	}
	if result.IsError() {
		return fmt.Errorf("authorization failed: %s: %s", result.Error, result.ErrorDescription)
	}
	if result.State != state {
		return fmt.Errorf("authorization state mismatch, possible CSRF attempt")
	}

	token, err := app.GetAccessToken(ctx, redirectURI, result.Code, verifier)
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := saveCredential(store, cfg, token); err != nil {
		return err
	}

	infof("Logged in, token expires at %s", token.ExpiresAt().Format("2006-01-02 15:04:05"))
	printToken(token)
	return nil
}
