package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cozeauth/pkg/logging"
	"cozeauth/pkg/oauth"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthFailed indicates the OAuth flow failed (denied, expired, pending).
	ExitCodeAuthFailed = 2
	// ExitCodeAPIError indicates the platform rejected a request.
	ExitCodeAPIError = 3
)

// Global flags shared by all subcommands.
var (
	cfgFile     string
	baseURLFlag string
	quiet       bool
	verbose     bool
)

// rootCmd is the entry point of the cozeauth CLI.
var rootCmd = &cobra.Command{
	Use:   "cozeauth",
	Short: "Authenticate to the Coze API platform",
	Long: `cozeauth obtains and manages Coze API access tokens through the
platform's OAuth flows: browser login with PKCE, device-code login for
headless machines, and server-to-server JWT-bearer token minting.`,
	// Errors are reported by Execute with semantic exit codes; the usage
	// text would only drown them out.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitForCLI(logLevel(), os.Stderr)
	},
}

// logLevel maps the global flags onto a filter level. Quiet wins over
// verbose so scripted callers only ever see the token on stdout.
func logLevel() logging.LogLevel {
	switch {
	case quiet:
		return logging.LevelError
	case verbose:
		return logging.LevelDebug
	default:
		return logging.LevelInfo
	}
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "cozeauth version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	var authErr *oauth.AuthError
	if errors.As(err, &authErr) {
		return ExitCodeAuthFailed
	}

	var apiErr *oauth.APIError
	if errors.As(err, &apiErr) {
		return ExitCodeAPIError
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cozeauth/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print the resulting token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(newVersionCmd())
}
