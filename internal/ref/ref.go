// Package ref parses op:// secret reference URIs.
//
// A reference addresses a field inside a vault item:
//
//	op://[vault/][item/]field[?target_url=<url-encoded>]
//
// Which segments are present depends on the segment count and on
// whether the reference is a session reference. Session references
// carry ambient vault/item defaults for a whole resolution pass and
// are vault-first: op://vault/item. Ordinary references are
// field-last: op://item/field or op://field.
package ref

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the reference URI prefix.
const Scheme = "op://"

// targetURLParam is the only query parameter a reference may carry.
const targetURLParam = "target_url"

// Reference is a parsed secret reference. Zero-value fields mean the
// segment was absent; scope resolution fills the gaps from ambient
// defaults. A reference is complete once both Item and Field are known
// (the vault may still come from scope).
type Reference struct {
	Vault     string
	Item      string
	Field     string
	TargetURL string
}

// Complete reports whether the reference names both an item and a field.
func (r *Reference) Complete() bool {
	return r.Item != "" && r.Field != ""
}

// Parse parses a raw reference string. sessionForm selects the
// vault-first segment mapping used by session references.
//
// Parse fails when the scheme prefix is missing, when the path has no
// segments or more than three, or when any segment is empty after
// trimming. A malformed target_url query parameter is ignored rather
// than failing the whole parse.
func Parse(raw string, sessionForm bool) (*Reference, error) {
	if !strings.HasPrefix(raw, Scheme) {
		return nil, fmt.Errorf("reference must start with %s", Scheme)
	}

	rest := strings.TrimPrefix(raw, Scheme)

	var query string
	if i := strings.Index(rest, "?"); i >= 0 {
		query = rest[i+1:]
		rest = rest[:i]
	}

	segments := strings.Split(rest, "/")
	if len(segments) > 3 {
		return nil, fmt.Errorf("too many path segments (%d, at most 3)", len(segments))
	}
	for i, seg := range segments {
		segments[i] = strings.TrimSpace(seg)
		if segments[i] == "" {
			return nil, fmt.Errorf("empty path segment at position %d", i+1)
		}
	}

	parsed := &Reference{}
	switch len(segments) {
	case 1:
		if sessionForm {
			// Session references are vault-first, so a lone segment
			// names the vault.
			parsed.Vault = segments[0]
		} else {
			parsed.Field = segments[0]
		}
	case 2:
		if sessionForm {
			parsed.Vault = segments[0]
			parsed.Item = segments[1]
		} else {
			parsed.Item = segments[0]
			parsed.Field = segments[1]
		}
	case 3:
		parsed.Vault = segments[0]
		parsed.Item = segments[1]
		parsed.Field = segments[2]
	}

	parsed.TargetURL = extractTargetURL(query)

	return parsed, nil
}

// extractTargetURL pulls the target_url parameter out of a raw query
// string. Decoding failures drop the parameter; a decoded value with
// no scheme marker gets https:// prefixed.
func extractTargetURL(query string) string {
	if query == "" {
		return ""
	}

	for _, pair := range strings.Split(query, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key != targetURLParam {
			continue
		}

		decoded, err := url.QueryUnescape(value)
		if err != nil {
			// A garbled parameter never fails the reference itself.
			continue
		}
		if decoded == "" {
			continue
		}
		if !strings.Contains(decoded, "://") {
			decoded = "https://" + decoded
		}
		return decoded
	}

	return ""
}
