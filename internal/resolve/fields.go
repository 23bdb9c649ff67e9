package resolve

import (
	"strings"

	"github.com/systmms/vaultfill/pkg/backend"
)

// sectionSeparator splits a section.field specifier. The split happens
// on the last occurrence so field labels containing dots still resolve
// via the direct match first.
const sectionSeparator = "."

// isURLAlias reports whether a field specifier names the item URL
// rather than a stored field.
func isURLAlias(specifier string) bool {
	switch strings.ToLower(specifier) {
	case "url", "website":
		return true
	}
	return false
}

// findFieldValue locates the value for a field specifier inside a
// fetched item. Strategies are tried in order, first success wins:
//
//  1. session target URL shortcut for url/website aliases
//  2. direct case-insensitive match on field label, then field id
//  3. section.field match, split on the last separator
//  4. url/website alias against the item's own URL list
func findFieldValue(item *backend.Item, specifier, targetURL string) (string, bool) {
	if targetURL != "" && isURLAlias(specifier) {
		// The session URL wins over anything stored in the item,
		// including a cached item's own URL entries.
		return targetURL, true
	}

	if value, ok := matchDirect(item.Fields, specifier); ok {
		return value, ok
	}

	if strings.Contains(specifier, sectionSeparator) {
		if value, ok := matchSectioned(item.Fields, specifier); ok {
			return value, ok
		}
	}

	if isURLAlias(specifier) {
		if value, ok := matchItemURL(item.URLs); ok {
			return value, ok
		}
	}

	return "", false
}

// matchDirect matches the specifier against field labels, then field
// ids. Labels are consulted for every field before any id is, so a
// label match beats a different field's id match for the same
// specifier.
func matchDirect(fields []backend.Field, specifier string) (string, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Label, specifier) {
			return f.Value, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.ID, specifier) {
			return f.Value, true
		}
	}
	return "", false
}

// matchSectioned splits the specifier on its last separator and
// matches section label-or-id plus field label-or-id, both
// case-insensitive.
func matchSectioned(fields []backend.Field, specifier string) (string, bool) {
	i := strings.LastIndex(specifier, sectionSeparator)
	sectionSpec := specifier[:i]
	fieldSpec := specifier[i+1:]
	if sectionSpec == "" || fieldSpec == "" {
		return "", false
	}

	for _, f := range fields {
		if f.Section == nil {
			continue
		}
		if !strings.EqualFold(f.Section.Label, sectionSpec) && !strings.EqualFold(f.Section.ID, sectionSpec) {
			continue
		}
		if strings.EqualFold(f.Label, fieldSpec) || strings.EqualFold(f.ID, fieldSpec) {
			return f.Value, true
		}
	}
	return "", false
}

// matchItemURL returns the item's primary URL, or the first one when
// none is marked primary.
func matchItemURL(urls []backend.URL) (string, bool) {
	if len(urls) == 0 {
		return "", false
	}
	for _, u := range urls {
		if u.Primary {
			return u.Href, true
		}
	}
	return urls[0].Href, true
}
