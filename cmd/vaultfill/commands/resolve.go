package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultfill/internal/config"
	dserrors "github.com/systmms/vaultfill/internal/errors"
)

func NewResolveCommand(cfg *config.Config) *cobra.Command {
	var (
		outputPath string
		inPlace    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve secret references in a configuration file",
		Long: `Load a configuration map from a dotenv or YAML file, resolve every
op:// reference and embedded {{ op://... }} placeholder, and print the
result as dotenv text.

Without a file argument the values block of vaultfill.yaml is used.

Examples:
  # Resolve a dotenv file and print the result
  vaultfill resolve .env.template

  # Write the resolved map to a file
  vaultfill resolve .env.template --output .env

  # Rewrite the file in place
  vaultfill resolve .env --in-place`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := applyOptionsFile(cfg)
			if err != nil {
				return err
			}

			if inPlace && len(args) == 0 {
				return dserrors.UserError{
					Message:    "--in-place requires a file argument",
					Suggestion: "Pass the file to rewrite: vaultfill resolve .env --in-place",
				}
			}

			configMap, err := loadConfigMap(cfg, file, args)
			if err != nil {
				return err
			}

			resolver, _ := newResolver(cfg)
			resolved, err := resolver.Fill(cmd.Context(), configMap)
			if err != nil {
				return err
			}

			rendered := config.RenderEnv(resolved)

			target := outputPath
			if inPlace {
				target = args[0]
			}
			if target == "" {
				fmt.Print(rendered)
				return nil
			}

			if err := os.WriteFile(target, []byte(rendered), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			cfg.Logger.Info("Wrote %d value(s) to %s", len(resolved), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the resolved map to a file instead of stdout")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Rewrite the input file with resolved values")

	return cmd
}
