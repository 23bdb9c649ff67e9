// Package scope turns partial secret references into fully specified
// resolution requests.
//
// A reference like op://password only names a field; the vault and
// item come from ambient scope: explicit configuration entries,
// process environment fallbacks, or a session reference that pins a
// vault/item pair for the whole pass. Scope construction happens once
// per resolution pass; per-reference completion happens in
// ResolveReference.
package scope

import (
	"context"
	"os"
	"strings"

	"github.com/systmms/vaultfill/internal/logging"
	"github.com/systmms/vaultfill/internal/ref"
	"github.com/systmms/vaultfill/pkg/backend"
)

// Configuration keys read during scope construction. SessionKey wins
// over LegacySessionKey when both are present. VaultKey and ItemKey
// fall back to identically named process environment variables.
const (
	VaultKey         = "OP_VAULT"
	ItemKey          = "OP_ITEM"
	SessionKey       = "OP_SESSION"
	LegacySessionKey = "op_session"
)

// EnvironmentProvider supplies process-level fallbacks for the scope
// settings. Injecting it keeps scope construction testable without
// mutating real process state.
type EnvironmentProvider interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads from the real process environment.
type OSEnvironment struct{}

// LookupEnv implements EnvironmentProvider.
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Scope holds the ambient defaults for one resolution pass.
type Scope struct {
	// CandidateVaults is the ordered vault search list; the first
	// vault that yields the item wins.
	CandidateVaults []string

	// DefaultItem completes references that name only a field.
	DefaultItem string

	// SessionTargetURL is the target_url carried by the session
	// reference, if any. It backs the url/website field aliases.
	SessionTargetURL string
}

// Identifier is a fully specified resolution request. Construction
// fails when the vault list is empty or the item or field cannot be
// determined, which is the terminal node of partial-path completion.
type Identifier struct {
	CandidateVaults   []string
	ItemName          string
	FieldSpecifier    string
	OriginalReference string
	TargetURL         string
}

// ResolveReference completes a raw reference against the ambient
// scope. A vault named in the reference itself wins outright over the
// scope's candidate list; item falls back to the scope default; the
// field is always mandatory.
func ResolveReference(raw string, sc Scope) (Identifier, error) {
	parsed, err := ref.Parse(raw, false)
	if err != nil {
		return Identifier{}, err
	}

	var vaults []string
	if parsed.Vault != "" {
		vaults = []string{parsed.Vault}
	} else {
		vaults = sc.CandidateVaults
	}
	if len(vaults) == 0 {
		return Identifier{}, &IncompleteError{Reference: raw, Missing: "vault"}
	}

	item := parsed.Item
	if item == "" {
		item = sc.DefaultItem
	}
	if item == "" {
		return Identifier{}, &IncompleteError{Reference: raw, Missing: "item"}
	}

	if parsed.Field == "" {
		return Identifier{}, &IncompleteError{Reference: raw, Missing: "field"}
	}

	target := sc.SessionTargetURL
	if parsed.TargetURL != "" {
		target = parsed.TargetURL
	}

	return Identifier{
		CandidateVaults:   vaults,
		ItemName:          item,
		FieldSpecifier:    parsed.Field,
		OriginalReference: raw,
		TargetURL:         target,
	}, nil
}

// IncompleteError reports a partial reference the ambient scope could
// not complete.
type IncompleteError struct {
	Reference string
	Missing   string
}

func (e *IncompleteError) Error() string {
	return "cannot resolve '" + e.Reference + "': no " + e.Missing + " specified and no default available"
}

// Build constructs the ambient scope for one resolution pass.
//
// The vault and item settings are read from the configuration map
// first, then from the environment provider. The vault setting may be
// a single string, a comma-joined string, or an ordered list. A
// session reference, when present, either overrides the vault/item
// pair outright (when it carries both) or fills individual gaps. When
// no vault is configured anywhere the full backend vault list becomes
// the candidate set, in listing order.
func Build(ctx context.Context, cfg map[string]any, env EnvironmentProvider, client backend.Client, logger *logging.Logger) Scope {
	sc := Scope{
		CandidateVaults: vaultSetting(cfg, env),
		DefaultItem:     stringSetting(cfg, env, ItemKey),
	}

	if raw := sessionSetting(cfg); raw != "" {
		session, err := ref.Parse(raw, true)
		if err != nil {
			logger.Warn("Ignoring malformed session reference: %v", err)
		} else {
			applySession(&sc, session)
		}
	}

	if len(sc.CandidateVaults) == 0 {
		sc.CandidateVaults = discoverVaults(ctx, client, logger)
	}

	return sc
}

// applySession merges a parsed session reference into the scope. A
// session carrying both vault and item replaces the ambient pair
// outright; a session carrying only one fills that one in only when
// the ambient value is absent.
func applySession(sc *Scope, session *ref.Reference) {
	switch {
	case session.Vault != "" && session.Item != "":
		sc.CandidateVaults = []string{session.Vault}
		sc.DefaultItem = session.Item
	default:
		if session.Vault != "" && len(sc.CandidateVaults) == 0 {
			sc.CandidateVaults = []string{session.Vault}
		}
		if session.Item != "" && sc.DefaultItem == "" {
			sc.DefaultItem = session.Item
		}
	}

	if session.TargetURL != "" {
		sc.SessionTargetURL = session.TargetURL
	}
}

// discoverVaults lists every vault visible to the current credentials.
// Discovery failure leaves the candidate list empty; later partial
// references then fail with a missing-vault error.
func discoverVaults(ctx context.Context, client backend.Client, logger *logging.Logger) []string {
	vaults, err := client.ListVaults(ctx)
	if err != nil {
		logger.Warn("No default vault configured and vault discovery failed: %v", err)
		return nil
	}

	names := make([]string, 0, len(vaults))
	for _, v := range vaults {
		name := v.Name
		if name == "" {
			name = v.ID
		}
		names = append(names, name)
	}
	logger.Debug("Discovered %d candidate vault(s)", len(names))
	return names
}

// vaultSetting reads the candidate vault list, configuration entry
// first, environment second. List values keep their order; string
// values are split on commas. Entries are trimmed and empties dropped.
func vaultSetting(cfg map[string]any, env EnvironmentProvider) []string {
	if raw, ok := cfg[VaultKey]; ok {
		switch v := raw.(type) {
		case string:
			if vaults := splitVaults(v); len(vaults) > 0 {
				return vaults
			}
		case []string:
			if vaults := normalizeVaults(v); len(vaults) > 0 {
				return vaults
			}
		case []any:
			entries := make([]string, 0, len(v))
			for _, e := range v {
				if s, ok := e.(string); ok {
					entries = append(entries, s)
				}
			}
			if vaults := normalizeVaults(entries); len(vaults) > 0 {
				return vaults
			}
		}
	}

	if v, ok := env.LookupEnv(VaultKey); ok {
		return splitVaults(v)
	}

	return nil
}

func splitVaults(v string) []string {
	return normalizeVaults(strings.Split(v, ","))
}

func normalizeVaults(entries []string) []string {
	vaults := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			vaults = append(vaults, entry)
		}
	}
	return vaults
}

// stringSetting reads a single-valued setting, configuration entry
// first, environment second.
func stringSetting(cfg map[string]any, env EnvironmentProvider, key string) string {
	if raw, ok := cfg[key]; ok {
		if s, ok := raw.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	if v, ok := env.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// sessionSetting reads the session reference from the configuration
// map. The current key wins over the legacy one when both are set.
func sessionSetting(cfg map[string]any) string {
	for _, key := range []string{SessionKey, LegacySessionKey} {
		if raw, ok := cfg[key]; ok {
			if s, ok := raw.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}
