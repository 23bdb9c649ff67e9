// Package resolve implements the secret resolution pass: it walks a
// flat configuration map, resolves op:// references and embedded
// placeholders against the backend, and writes the concrete values
// back. Each call to Fill is one pass with its own item and value
// caches; nothing persists between passes.
package resolve

import (
	"context"
	"sort"
	"strings"

	dserrors "github.com/systmms/vaultfill/internal/errors"
	"github.com/systmms/vaultfill/internal/logging"
	"github.com/systmms/vaultfill/internal/metrics"
	"github.com/systmms/vaultfill/internal/ref"
	"github.com/systmms/vaultfill/internal/scope"
	"github.com/systmms/vaultfill/pkg/backend"
)

// ConfigMap is the flat string-keyed configuration the resolver reads
// and rewrites. Only string values participate in resolution.
type ConfigMap = map[string]any

// Options configures a Resolver.
type Options struct {
	// FailOnError aborts the pass on the first unresolved reference.
	// When false every failure becomes a logged warning and the
	// affected value is left unchanged.
	FailOnError bool

	// Env supplies process-level fallbacks for the scope settings.
	Env scope.EnvironmentProvider

	// Logger defaults to a quiet stderr logger.
	Logger *logging.Logger

	// Metrics defaults to an unregistered (no-op) instance.
	Metrics *metrics.ResolutionMetrics
}

// DefaultOptions returns the options the host contract promises:
// fail-fast, real process environment.
func DefaultOptions() Options {
	return Options{
		FailOnError: true,
		Env:         scope.OSEnvironment{},
	}
}

// Resolver binds a backend client to resolution options. It is cheap
// to construct and may be reused across passes; all per-pass state
// lives in the engine created inside Fill.
type Resolver struct {
	client  backend.Client
	opts    Options
	logger  *logging.Logger
	metrics *metrics.ResolutionMetrics
}

// New creates a resolver for the given backend client.
func New(client backend.Client, opts Options) *Resolver {
	if opts.Env == nil {
		opts.Env = scope.OSEnvironment{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(false, true)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewResolutionMetrics()
	}
	return &Resolver{
		client:  client,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Fill runs one resolution pass over cfg and returns a new map with
// resolved values. The input map is never mutated. An upfront backend
// access failure aborts before any entry is processed and returns the
// original map alongside the error, regardless of fail policy.
//
// Entries are visited in sorted key order so that fetch ordering, and
// with it cache behavior, is deterministic. The two session keys are
// carriers of ambient scope and are never treated as resolvable
// secrets.
func (r *Resolver) Fill(ctx context.Context, cfg ConfigMap) (ConfigMap, error) {
	if err := r.client.ValidateAccess(ctx); err != nil {
		r.logger.Error("Backend access validation failed: %v", err)
		return cfg, dserrors.BackendError("access validation", err)
	}

	sc := scope.Build(ctx, cfg, r.opts.Env, r.client, r.logger)
	eng := newEngine(r.client, r.logger, r.metrics, r.opts.FailOnError)

	out := make(ConfigMap, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}

	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == scope.SessionKey || key == scope.LegacySessionKey {
			continue
		}
		value, ok := out[key].(string)
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(strings.TrimSpace(value), ref.Scheme):
			resolved, ok, err := eng.resolveValue(ctx, strings.TrimSpace(value), sc)
			if err != nil {
				return out, err
			}
			if ok {
				out[key] = resolved
				r.logger.Debug("Resolved %s from secret reference", key)
			}
		case containsPlaceholder(value):
			rewritten, err := eng.substitute(ctx, value, sc)
			if err != nil {
				return out, err
			}
			out[key] = rewritten
		}
	}

	if warnings := eng.warnings.ErrorOrNil(); warnings != nil {
		r.logger.Warn("Completed with %d unresolved reference(s)", eng.warnings.Len())
	}

	return out, nil
}
