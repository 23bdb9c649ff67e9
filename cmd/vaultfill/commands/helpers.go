package commands

import (
	"os"

	"github.com/systmms/vaultfill/internal/backend/opcli"
	"github.com/systmms/vaultfill/internal/config"
	"github.com/systmms/vaultfill/internal/resolve"
)

// applyOptionsFile overlays vaultfill.yaml onto the flag-derived
// runtime configuration. The file is optional; explicit flags keep
// precedence over file settings.
func applyOptionsFile(cfg *config.Config) (*config.File, error) {
	file, err := config.LoadFile(cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		// Wrapped read errors hide the sentinel; check the path too.
		if _, statErr := os.Stat(cfg.Path); os.IsNotExist(statErr) {
			return nil, nil
		}
		return nil, err
	}

	if file.Account != "" && cfg.Account == "" {
		cfg.Account = file.Account
	}
	// --no-fail-fast on the command line wins over the file setting.
	if file.FailOnError != nil && cfg.FailOnError {
		cfg.FailOnError = *file.FailOnError
	}

	return file, nil
}

// newResolver wires the op CLI client into a resolver using the
// runtime configuration.
func newResolver(cfg *config.Config) (*resolve.Resolver, *opcli.Client) {
	client := opcli.New(cfg.Logger, cfg.Account)
	resolver := resolve.New(client, resolve.Options{
		FailOnError: cfg.FailOnError,
		Logger:      cfg.Logger,
	})
	return resolver, client
}

// loadConfigMap reads the configuration map for a command: the file
// argument when given, otherwise the values block of vaultfill.yaml.
func loadConfigMap(cfg *config.Config, file *config.File, args []string) (map[string]any, error) {
	if len(args) > 0 {
		return config.LoadMap(args[0])
	}
	if file != nil && file.Values != nil {
		return file.Values, nil
	}
	return map[string]any{}, nil
}
