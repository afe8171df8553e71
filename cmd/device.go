package cmd

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"cozeauth/pkg/logging"
	"cozeauth/pkg/oauth"
)

var deviceNoPoll bool

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Log in with a device code",
	Long: `Device obtains a device code, prints the verification URL and user code,
and polls the platform until the user completes authorization in a
browser on another machine. Suitable for headless hosts.`,
	RunE: runDevice,
}

func init() {
	deviceCmd.Flags().BoolVar(&deviceNoPoll, "no-poll", false, "request the device code and exit without polling")
}

func runDevice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := oauth.NewDeviceOAuthApp(cfg.ClientID, appOptions(cfg)...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	code, err := app.GetDeviceCode(ctx, urlOpts(cfg)...)
	if err != nil {
		return err
	}

	infof("Visit the following URL to authorize this device:\n\n  %s\n\nUser code: %s", code.VerificationURL(), code.UserCode)

	if deviceNoPoll {
		return nil
	}
	logging.Debug("Device", "polling for authorization every %s", code.PollInterval())

	var spin *spinner.Spinner
	if !quiet {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " Waiting for authorization..."
		spin.Start()
	}

	token, err := app.GetAccessToken(ctx, code, true)
	if spin != nil {
		spin.Stop()
	}
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

	infof("Device authorized, token expires at %s", token.ExpiresAt().Format("2006-01-02 15:04:05"))
	printToken(token)
	return nil
}
