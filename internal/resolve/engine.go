package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/systmms/vaultfill/internal/logging"
	"github.com/systmms/vaultfill/internal/metrics"
	"github.com/systmms/vaultfill/internal/scope"
	"github.com/systmms/vaultfill/pkg/backend"
)

// engine owns the state of one resolution pass: the item cache, the
// resolved-value cache, and the accumulated lenient-mode warnings.
// Both caches die with the pass. The engine is strictly sequential;
// vault candidates and configuration entries are tried in order
// because first-match-wins semantics depend on it.
type engine struct {
	client      backend.Client
	logger      *logging.Logger
	metrics     *metrics.ResolutionMetrics
	failOnError bool

	items    itemCache
	values   map[string]*string
	warnings *multierror.Error
}

func newEngine(client backend.Client, logger *logging.Logger, m *metrics.ResolutionMetrics, failOnError bool) *engine {
	return &engine{
		client:      client,
		logger:      logger,
		metrics:     m,
		failOnError: failOnError,
		values:      make(map[string]*string),
	}
}

// fail applies the fail policy to a terminal failure. Fail-fast
// returns the error to abort the pass; lenient mode logs a warning,
// records it, and reports a skip.
func (e *engine) fail(err error) (string, bool, error) {
	if e.failOnError {
		return "", false, err
	}
	e.logger.Warn("%v", err)
	e.warnings = multierror.Append(e.warnings, err)
	return "", false, nil
}

// resolveValue resolves one raw reference string against the ambient
// scope, consulting the per-pass resolved-value cache first. Repeated
// identical references, whether whole-value entries or embedded
// placeholders, resolve exactly once.
func (e *engine) resolveValue(ctx context.Context, raw string, sc scope.Scope) (string, bool, error) {
	if cached, seen := e.values[raw]; seen {
		if cached != nil {
			return *cached, true, nil
		}
		return "", false, nil
	}

	value, ok, err := e.resolveUncached(ctx, raw, sc)
	if err != nil {
		return "", false, err
	}
	if ok {
		e.values[raw] = &value
	} else {
		e.values[raw] = nil
	}
	return value, ok, nil
}

func (e *engine) resolveUncached(ctx context.Context, raw string, sc scope.Scope) (string, bool, error) {
	id, err := scope.ResolveReference(raw, sc)
	if err != nil {
		return e.fail(err)
	}
	return e.resolveIdentifier(ctx, id)
}

// resolveIdentifier runs the vault search for a fully specified
// request. The item cache is consulted first; a cached failure
// replays without re-fetching, and a cached item that lacks the
// requested field is a terminal field-not-found, not a cache miss.
func (e *engine) resolveIdentifier(ctx context.Context, id scope.Identifier) (string, bool, error) {
	if entry := e.items.lookup(id.CandidateVaults, id.ItemName); entry != nil {
		switch cached := entry.(type) {
		case *failedEntry:
			e.metrics.RecordCacheHit("failure")
			return e.fail(fetchError(cached.item, []string{cached.vault}, cached.reference, cached.err))
		case *fetchedEntry:
			e.metrics.RecordCacheHit("item")
			return e.matchField(cached.item, id)
		}
	}

	var lastErr error
	for _, vault := range id.CandidateVaults {
		e.logger.Debug("Fetching item '%s' from vault '%s'", id.ItemName, vault)
		item, err := e.client.FetchItem(ctx, id.ItemName, vault)
		if err != nil {
			e.metrics.RecordFetch(vault, "error")
			e.items.addFailure(vault, id.ItemName, id.OriginalReference, err)
			lastErr = err
			continue
		}

		e.metrics.RecordFetch(vault, "success")
		e.items.addItem(item)
		// The item was found, so a missing field is terminal: the
		// remaining vaults are not tried.
		return e.matchField(item, id)
	}

	return e.fail(fetchError(id.ItemName, id.CandidateVaults, id.OriginalReference, lastErr))
}

func (e *engine) matchField(item *backend.Item, id scope.Identifier) (string, bool, error) {
	value, ok := findFieldValue(item, id.FieldSpecifier, id.TargetURL)
	if !ok {
		return e.fail(fmt.Errorf("field '%s' not found in item '%s' (reference '%s')",
			id.FieldSpecifier, item.Title, id.OriginalReference))
	}
	return value, true, nil
}

// fetchError builds the terminal fetch-failure message. A single-vault
// failure names that vault; a multi-vault failure lists every
// attempted vault along with the last error observed.
func fetchError(item string, vaults []string, reference string, err error) error {
	if len(vaults) == 1 {
		return fmt.Errorf("failed to load item '%s' from vault '%s' (reference '%s'): %w",
			item, vaults[0], reference, err)
	}
	return fmt.Errorf("failed to load item '%s' from vaults [%s] (reference '%s'): %w",
		item, strings.Join(vaults, ", "), reference, err)
}
