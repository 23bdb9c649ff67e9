package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/vaultfill/internal/config"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check backend connectivity and credentials",
		Long: `Validate that the op CLI is installed, the selected credentials
work, and vaults are visible. Run this when resolution fails with
authentication errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := applyOptionsFile(cfg); err != nil {
				return err
			}

			_, client := newResolver(cfg)
			cfg.Logger.Info("Authentication method: %s", client.AuthMethod())

			if err := client.ValidateAccess(cmd.Context()); err != nil {
				cfg.Logger.Error("Backend access check failed")
				return err
			}
			cfg.Logger.Info("Backend access OK")

			vaults, err := client.ListVaults(cmd.Context())
			if err != nil {
				cfg.Logger.Error("Vault listing failed")
				return err
			}
			cfg.Logger.Info("%d vault(s) visible", len(vaults))
			return nil
		},
	}

	return cmd
}
