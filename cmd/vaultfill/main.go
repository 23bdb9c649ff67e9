package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/vaultfill/cmd/vaultfill/commands"
	"github.com/systmms/vaultfill/internal/config"
	"github.com/systmms/vaultfill/internal/logging"
	"github.com/systmms/vaultfill/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer memguard.Purge()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		optionsFile string
		account     string
		noColor     bool
		debug       bool
		noFailFast  bool
	)

	// Config placeholder, filled in once flags are parsed
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "vaultfill",
		Short: "Fill configuration values from your password vault",
		Long: `vaultfill resolves op:// secret references in configuration files and
injects the concrete values, so test setups never hardcode credentials.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = optionsFile
			cfg.Logger = logging.New(debug, noColor)
			cfg.FailOnError = !noFailFast
			cfg.Account = account

			// Counters stay unregistered, and so unrecorded, unless a
			// host embedding the process scrapes the default registry.
			if os.Getenv("VAULTFILL_METRICS") != "" {
				metrics.Init()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&optionsFile, "config", "vaultfill.yaml", "Options file path")
	rootCmd.PersistentFlags().StringVar(&account, "account", "", "op account to use")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noFailFast, "no-fail-fast", false, "Warn on unresolved references instead of aborting")

	rootCmd.AddCommand(
		commands.NewResolveCommand(cfg),
		commands.NewExecCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewVaultsCommand(cfg),
		commands.NewLoginCommand(cfg),
	)

	return rootCmd.Execute()
}
