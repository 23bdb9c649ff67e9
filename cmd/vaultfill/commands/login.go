package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultfill/internal/backend/opcli"
	"github.com/systmms/vaultfill/internal/config"
	dserrors "github.com/systmms/vaultfill/internal/errors"
)

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a service-account token in the OS keyring",
		Long: `Store an op service-account token in the OS keyring so later runs
authenticate without OP_SERVICE_ACCOUNT_TOKEN in the environment.

The token is read from stdin to keep it out of shell history.

Examples:
  # Store a token
  vaultfill login < token.txt

  # Remove the stored token
  vaultfill login --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := opcli.ClearServiceAccountToken(); err != nil {
					return fmt.Errorf("failed to clear token: %w", err)
				}
				cfg.Logger.Info("Stored token cleared")
				return nil
			}

			fmt.Fprint(os.Stderr, "Service-account token: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token: %w", err)
			}

			token := strings.TrimSpace(line)
			if token == "" {
				return dserrors.UserError{
					Message:    "Empty token",
					Suggestion: "Paste the service-account token and press enter",
				}
			}

			if err := opcli.StoreServiceAccountToken(token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}
			cfg.Logger.Info("Token stored in OS keyring")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the stored token")

	return cmd
}
