package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/statusline-go/internal/app"
	"github.com/doeshing/statusline-go/internal/domain"
)

// NewTokenCommand creates the token command
func NewTokenCommand(lazy *app.Lazy) *cobra.Command {
	var refresh, reveal bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show the weather API credential state",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := lazy.Get(cmd.Context())
			if err != nil {
				return err
			}
			tokens := container.Tokens
			if refresh {
				if err := tokens.Invalidate(); err != nil {
					return fmt.Errorf("failed to drop cached token: %w", err)
				}
			}
			cred := tokens.Describe(cmd.Context())
			displayCredential(cmd.OutOrStdout(), cred, reveal, time.Now())
			if cred.State == domain.CredentialSigning && cred.Token == "" {
				return fmt.Errorf("token signing failed; run with --debug and check the log")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Discard the cached token and sign a new one")
	cmd.Flags().BoolVar(&reveal, "print", false, "Print the token itself")
	return cmd
}

// displayCredential prints the credential state without the secret unless asked.
func displayCredential(out io.Writer, cred domain.Credential, reveal bool, now time.Time) {
	fmt.Fprintf(out, "State: %s\n", cred.State)
	if cred.Signer != "" {
		fmt.Fprintf(out, "Signer: %s\n", cred.Signer)
	}
	if !cred.IssuedAt.IsZero() {
		fmt.Fprintf(out, "Issued: %s\n", humanize.RelTime(cred.IssuedAt, now, "ago", "from now"))
	}
	if !cred.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "Expires: %s (%s)\n",
			cred.ExpiresAt.Local().Format(time.RFC3339),
			humanize.RelTime(cred.ExpiresAt, now, "ago", "from now"))
	}
	if reveal && cred.Token != "" {
		fmt.Fprintln(out, cred.Token)
	}
}
