package cmd

import (
	"fmt"
	"os"
	"time"

	"cozeauth/internal/config"
	"cozeauth/internal/credstore"
	"cozeauth/pkg/logging"
	"cozeauth/pkg/oauth"
)

// loadConfig loads the effective configuration, applying the global
// command-line flag overrides on top of file and environment values.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	logging.Debug("Config", "loading configuration from %s", path)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}

	return &cfg, nil
}

// newStore returns the credential store selected by the configuration:
// the OS keyring when enabled, a file store under the user's config
// directory otherwise.
func newStore(cfg *config.Config) (credstore.Store, error) {
	if cfg.UseKeyring {
		return credstore.NewKeyringStore(), nil
	}
	return credstore.NewFileStore("")
}

// credentialName derives the store key for a credential. Tokens are scoped
// per endpoint and client so that switching regions or apps never reuses a
// stale token.
func credentialName(cfg *config.Config) string {
	return cfg.BaseURL + "#" + cfg.ClientID
}

// appOptions builds the OAuthApp options shared by all commands.
func appOptions(cfg *config.Config) []oauth.Option {
	opts := []oauth.Option{
		oauth.WithBaseURL(cfg.BaseURL),
		oauth.WithLogger(logging.Default()),
	}
	if cfg.WWWBaseURL != "" {
		opts = append(opts, oauth.WithWWWBaseURL(cfg.WWWBaseURL))
	}
	return opts
}

// urlOpts builds the per-request URL options from the configuration.
func urlOpts(cfg *config.Config) []oauth.URLOption {
	var opts []oauth.URLOption
	if cfg.WorkspaceID != "" {
		opts = append(opts, oauth.WithWorkspaceID(cfg.WorkspaceID))
	}
	return opts
}

// saveCredential persists a freshly obtained token under the standard name.
// Only token metadata is logged.
func saveCredential(store credstore.Store, cfg *config.Config, token *oauth.OAuthToken) error {
	cred := &credstore.Credential{
		Name:      credentialName(cfg),
		Token:     *token,
		Endpoint:  cfg.BaseURL,
		ClientID:  cfg.ClientID,
		CreatedAt: time.Now(),
	}
	if err := store.Save(cred); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	logging.Info("Store", "stored credential for client %s at %s", cfg.ClientID, cfg.BaseURL)
	return nil
}

// readPrivateKey loads the PEM-encoded RSA private key referenced by the
// configuration.
func readPrivateKey(cfg *config.Config) ([]byte, error) {
	if cfg.PrivateKeyFile == "" {
		return nil, fmt.Errorf("private_key_file is not configured")
	}
	data, err := os.ReadFile(cfg.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return data, nil
}

// printToken writes a token to stdout. In quiet mode it is the only output,
// suitable for command substitution in scripts.
func printToken(token *oauth.OAuthToken) {
	fmt.Println(token.AccessToken)
}

// infof prints a progress message unless quiet mode is enabled.
func infof(format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
