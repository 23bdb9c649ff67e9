package resolve

import (
	"strings"

	"github.com/systmms/vaultfill/pkg/backend"
)

// The item cache memoizes backend fetches for the lifetime of one
// resolution pass. Entries form a tagged variant: a fetch either
// produced an item or a recorded failure, and both kinds replay on a
// later lookup so each distinct (vault, item) pair costs at most one
// backend call per pass.
//
// Lookup is an ordered O(n) scan rather than a map: the match
// criteria are multi-field (vault id or name, item id or title) and
// case-insensitive, so there is no single canonical key to hash on.
// The scan is permissive: any candidate vault matching the cached
// entry's vault id or name counts, even when the entry was discovered
// under a different alias.

// cacheEntry is either a fetchedEntry or a failedEntry.
type cacheEntry interface {
	matches(candidateVaults []string, itemName string) bool
}

// fetchedEntry records a successful backend fetch.
type fetchedEntry struct {
	item *backend.Item
}

func (e *fetchedEntry) matches(candidateVaults []string, itemName string) bool {
	if !strings.EqualFold(e.item.ID, itemName) && !strings.EqualFold(e.item.Title, itemName) {
		return false
	}
	return anyVaultMatches(candidateVaults, e.item.Vault.ID, e.item.Vault.Name)
}

// failedEntry records a failed fetch keyed by the (vault, item) pair
// that was attempted.
type failedEntry struct {
	vault     string
	item      string
	reference string
	err       error
}

func (e *failedEntry) matches(candidateVaults []string, itemName string) bool {
	if !strings.EqualFold(e.item, itemName) {
		return false
	}
	return anyVaultMatches(candidateVaults, e.vault, "")
}

func anyVaultMatches(candidates []string, id, name string) bool {
	for _, c := range candidates {
		if strings.EqualFold(c, id) || (name != "" && strings.EqualFold(c, name)) {
			return true
		}
	}
	return false
}

// itemCache is the per-pass fetch memo. Not safe for concurrent use;
// a pass is strictly sequential.
type itemCache struct {
	entries []cacheEntry
}

// lookup returns the first entry matching the candidate vault list and
// item name, or nil when nothing matches.
func (c *itemCache) lookup(candidateVaults []string, itemName string) cacheEntry {
	for _, entry := range c.entries {
		if entry.matches(candidateVaults, itemName) {
			return entry
		}
	}
	return nil
}

func (c *itemCache) addItem(item *backend.Item) {
	c.entries = append(c.entries, &fetchedEntry{item: item})
}

func (c *itemCache) addFailure(vault, item, reference string, err error) {
	c.entries = append(c.entries, &failedEntry{vault: vault, item: item, reference: reference, err: err})
}
