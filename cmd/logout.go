package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"cozeauth/internal/credstore"
)

var logoutAll bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Long: `Logout deletes the stored credential for the configured endpoint and
client. With --all, every credential in the file store is removed.`,
	RunE: runLogout,
}

func init() {
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "remove all stored credentials")
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if logoutAll {
		store, err := credstore.NewFileStore("")
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		infof("All credentials removed")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := store.Delete(credentialName(cfg)); err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			infof("No stored credential for %s", cfg.BaseURL)
			return nil
		}
		return err
	}

	infof("Logged out from %s", cfg.BaseURL)
	return nil
}
