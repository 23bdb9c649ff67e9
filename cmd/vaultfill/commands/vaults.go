package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultfill/internal/config"
)

func NewVaultsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "List vaults visible to the current credentials",
		Long: `List every vault the selected credentials can see, in the order the
backend reports them. This is the order vault auto-discovery uses when
no default vault is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := applyOptionsFile(cfg); err != nil {
				return err
			}

			_, client := newResolver(cfg)
			vaults, err := client.ListVaults(cmd.Context())
			if err != nil {
				return err
			}

			for _, v := range vaults {
				fmt.Printf("%s\t%s\n", v.ID, v.Name)
			}
			return nil
		},
	}

	return cmd
}
