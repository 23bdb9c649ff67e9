package resolve

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/systmms/vaultfill/internal/scope"
)

// placeholderPattern matches {{ op://... }} placeholders embedded in a
// larger string. Interior whitespace next to each delimiter is capped
// at maxPlaceholderPadding characters; the cap is a stated safety
// bound on pattern complexity, kept even though Go's RE2 engine never
// backtracks.
const maxPlaceholderPadding = 10

var placeholderPattern = regexp.MustCompile(
	`\{\{[ \t]{0,` + strconv.Itoa(maxPlaceholderPadding) + `}(op://[^{}]+?)[ \t]{0,` + strconv.Itoa(maxPlaceholderPadding) + `}\}\}`)

// containsPlaceholder reports whether text embeds at least one
// reference placeholder.
func containsPlaceholder(text string) bool {
	return placeholderPattern.MatchString(text)
}

// substitute resolves every embedded placeholder in text and rewrites
// it. Placeholders are processed left to right; duplicates reuse the
// pass's resolved-value cache. A successful resolution replaces every
// literal occurrence of that exact placeholder text. In lenient mode
// failed placeholders stay in place and the rest still resolve.
func (e *engine) substitute(ctx context.Context, text string, sc scope.Scope) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	result := text
	replaced := make(map[string]bool)
	for _, m := range matches {
		placeholder, raw := m[0], strings.TrimSpace(m[1])
		if replaced[placeholder] {
			continue
		}
		replaced[placeholder] = true

		value, ok, err := e.resolveValue(ctx, raw, sc)
		if err != nil {
			e.metrics.RecordSubstitution("error")
			return text, err
		}
		if !ok {
			e.metrics.RecordSubstitution("skipped")
			continue
		}
		e.metrics.RecordSubstitution("success")
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result, nil
}
