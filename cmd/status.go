package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"cozeauth/internal/credstore"
	pkgstrings "cozeauth/pkg/strings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored credentials",
	Long: `Status lists the credentials in the file store with their endpoint,
client and expiry. Access tokens are shown masked.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Only the file store supports enumeration; keyring entries are
	// addressed by name only.
	store, err := credstore.NewFileStore("")
	if err != nil {
		return err
	}

	creds, err := store.List()
	if err != nil {
		return err
	}

	if len(creds) == 0 {
		infof("No stored credentials. Run 'cozeauth login' or 'cozeauth device' first.")
		return nil
	}

	now := time.Now()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Endpoint", "Client", "Token", "Expires", "Status"})

	for _, cred := range creds {
		status := text.FgGreen.Sprint("valid")
		if !cred.Valid(now) {
			status = text.FgRed.Sprint("expired")
		}
		t.AppendRow(table.Row{
			pkgstrings.Truncate(cred.Endpoint, pkgstrings.DefaultColumnMaxLen),
			pkgstrings.Truncate(cred.ClientID, pkgstrings.DefaultColumnMaxLen),
			pkgstrings.MaskSecret(cred.Token.AccessToken),
			cred.Token.ExpiresAt().Format("2006-01-02 15:04:05"),
			status,
		})
	}

	t.Render()
	return nil
}
