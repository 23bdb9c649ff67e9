package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/vaultfill/internal/config"
	dserrors "github.com/systmms/vaultfill/internal/errors"
	"github.com/systmms/vaultfill/internal/execenv"
)

func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		printVars     bool
		allowOverride bool
		workingDir    string
		timeout       int
	)

	cmd := &cobra.Command{
		Use:   "exec [file] -- command [args...]",
		Short: "Run a command with resolved values as environment variables",
		Long: `Resolve secret references and launch a command with the resolved
entries injected into its environment. Nothing is written to disk.

Examples:
  # Run a test suite with resolved credentials
  vaultfill exec .env.template -- npm test

  # Use the values block of vaultfill.yaml
  vaultfill exec -- ./run-integration-tests.sh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			if dash < 0 || dash == len(args) {
				return dserrors.UserError{
					Message:    "No command specified",
					Suggestion: "Provide a command after -- (e.g., vaultfill exec .env -- npm test)",
				}
			}
			fileArgs, command := args[:dash], args[dash:]
			if len(fileArgs) > 1 {
				return dserrors.UserError{
					Message:    "At most one configuration file may be given",
					Suggestion: "vaultfill exec [file] -- command [args...]",
				}
			}

			file, err := applyOptionsFile(cfg)
			if err != nil {
				return err
			}

			configMap, err := loadConfigMap(cfg, file, fileArgs)
			if err != nil {
				return err
			}

			resolver, _ := newResolver(cfg)
			resolved, err := resolver.Fill(cmd.Context(), configMap)
			if err != nil {
				return err
			}

			executor := execenv.New(cfg.Logger)
			return executor.Exec(cmd.Context(), execenv.Options{
				Command:       command,
				Config:        resolved,
				AllowOverride: allowOverride,
				PrintVars:     printVars,
				WorkingDir:    workingDir,
				Timeout:       timeout,
			})
		},
	}

	cmd.Flags().BoolVar(&printVars, "print", false, "Print injected variable names (values masked)")
	cmd.Flags().BoolVar(&allowOverride, "allow-override", false, "Let existing environment variables win over resolved values")
	cmd.Flags().StringVar(&workingDir, "dir", "", "Working directory for the command")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Command timeout in seconds (0 for none)")

	return cmd
}
