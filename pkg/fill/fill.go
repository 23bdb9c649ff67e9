// Package fill is the host-facing entry point: a test-runner's setup
// phase hands it a flat configuration map, and every op:// reference
// or embedded {{ op://... }} placeholder in the map's string values is
// replaced with the secret it names.
//
// Usage:
//
//	cfg, err := fill.Config(ctx, cfg, fill.Options{})
//
// Zero-value options mean fail-fast resolution through the op CLI
// backend with process-environment scope fallbacks.
package fill

import (
	"context"

	"github.com/systmms/vaultfill/internal/backend/opcli"
	"github.com/systmms/vaultfill/internal/logging"
	"github.com/systmms/vaultfill/internal/resolve"
	"github.com/systmms/vaultfill/internal/scope"
	"github.com/systmms/vaultfill/pkg/backend"
)

// Options configures one call to Config.
type Options struct {
	// ContinueOnError downgrades unresolved references from errors to
	// logged warnings, leaving the affected values unchanged. The
	// default is fail-fast.
	ContinueOnError bool

	// Client overrides the backend. Defaults to the op CLI.
	Client backend.Client

	// Account selects the op account when the default client is used.
	Account string

	// Env overrides the process-environment fallback source.
	Env scope.EnvironmentProvider

	// Logger defaults to a non-debug stderr logger.
	Logger *logging.Logger

	// Debug enables debug logging on the default logger.
	Debug bool
}

// Config resolves every secret reference in cfg and returns a new map
// with the concrete values filled in. The input map is not mutated.
// When upfront backend validation fails the original map is returned
// unchanged alongside the error.
func Config(ctx context.Context, cfg map[string]any, opts Options) (map[string]any, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(opts.Debug, false)
	}

	client := opts.Client
	if client == nil {
		client = opcli.New(logger, opts.Account)
	}

	resolver := resolve.New(client, resolve.Options{
		FailOnError: !opts.ContinueOnError,
		Env:         opts.Env,
		Logger:      logger,
	})
	return resolver.Fill(ctx, cfg)
}
