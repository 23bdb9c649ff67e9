package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/vaultfill/pkg/backend"
)

func TestFindFieldValueDirect(t *testing.T) {
	t.Parallel()

	item := &backend.Item{
		ID:    "item1",
		Title: "Login",
		Fields: []backend.Field{
			{ID: "username", Label: "username", Value: "admin"},
			{ID: "f-123", Label: "password", Value: "hunter2"},
			{ID: "notesPlain", Label: "notes", Value: "some notes"},
		},
	}

	tests := []struct {
		name      string
		specifier string
		expected  string
		found     bool
	}{
		{"match by label", "password", "hunter2", true},
		{"match by label case-insensitive", "PaSsWoRd", "hunter2", true},
		{"match by id", "f-123", "hunter2", true},
		{"match by id case-insensitive", "F-123", "hunter2", true},
		{"no match", "missing", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, ok := findFieldValue(item, tt.specifier, "")
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestFindFieldValueLabelBeatsID(t *testing.T) {
	t.Parallel()

	// One field's id collides with another field's label; the label
	// lookup is consulted first, so the labeled field wins even
	// though the id-bearing field comes first in order.
	item := &backend.Item{
		Fields: []backend.Field{
			{ID: "token", Label: "legacy token", Value: "by-id"},
			{ID: "f-9", Label: "token", Value: "by-label"},
		},
	}

	value, ok := findFieldValue(item, "token", "")
	assert.True(t, ok)
	assert.Equal(t, "by-label", value)
}

func TestFindFieldValueSectioned(t *testing.T) {
	t.Parallel()

	item := &backend.Item{
		Fields: []backend.Field{
			{ID: "f-1", Label: "host", Value: "top-level-host"},
			{
				ID: "f-2", Label: "host", Value: "db-host",
				Section: &backend.Section{ID: "s-1", Label: "database"},
			},
			{
				ID: "f-3", Label: "port", Value: "5432",
				Section: &backend.Section{ID: "s-1", Label: "database"},
			},
			{ID: "f-4", Label: "database.name", Value: "literal-dotted"},
		},
	}

	tests := []struct {
		name      string
		specifier string
		expected  string
		found     bool
	}{
		{"section label dot field label", "database.host", "db-host", true},
		{"section id dot field id", "s-1.f-3", "5432", true},
		{"case-insensitive section match", "DATABASE.PORT", "5432", true},
		{"literal dotted label found by direct match first", "database.name", "literal-dotted", true},
		{"unknown section", "cache.host", "", false},
		{"known section unknown field", "database.missing", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, ok := findFieldValue(item, tt.specifier, "")
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestFindFieldValueSectionSplitsOnLastSeparator(t *testing.T) {
	t.Parallel()

	item := &backend.Item{
		Fields: []backend.Field{
			{
				ID: "f-1", Label: "key", Value: "nested",
				Section: &backend.Section{ID: "s-1", Label: "a.b"},
			},
		},
	}

	// "a.b.key" splits into section "a.b" and field "key".
	value, ok := findFieldValue(item, "a.b.key", "")
	assert.True(t, ok)
	assert.Equal(t, "nested", value)
}

func TestFindFieldValueURLAlias(t *testing.T) {
	t.Parallel()

	item := &backend.Item{
		Fields: []backend.Field{
			{ID: "f-1", Label: "password", Value: "hunter2"},
		},
		URLs: []backend.URL{
			{Href: "https://first.example.com"},
			{Primary: true, Href: "https://primary.example.com"},
		},
	}

	t.Run("session target url wins over item urls", func(t *testing.T) {
		t.Parallel()

		for _, specifier := range []string{"url", "website", "URL", "Website"} {
			value, ok := findFieldValue(item, specifier, "https://session.example.com")
			assert.True(t, ok)
			assert.Equal(t, "https://session.example.com", value)
		}
	})

	t.Run("primary url preferred", func(t *testing.T) {
		t.Parallel()

		value, ok := findFieldValue(item, "url", "")
		assert.True(t, ok)
		assert.Equal(t, "https://primary.example.com", value)
	})

	t.Run("first url when none primary", func(t *testing.T) {
		t.Parallel()

		noPrimary := &backend.Item{URLs: []backend.URL{
			{Href: "https://a.example.com"},
			{Href: "https://b.example.com"},
		}}
		value, ok := findFieldValue(noPrimary, "website", "")
		assert.True(t, ok)
		assert.Equal(t, "https://a.example.com", value)
	})

	t.Run("url field on item beats url alias fallback", func(t *testing.T) {
		t.Parallel()

		withField := &backend.Item{
			Fields: []backend.Field{{ID: "f-1", Label: "url", Value: "https://field.example.com"}},
			URLs:   []backend.URL{{Primary: true, Href: "https://list.example.com"}},
		}
		value, ok := findFieldValue(withField, "url", "")
		assert.True(t, ok)
		assert.Equal(t, "https://field.example.com", value)
	})

	t.Run("no urls at all fails", func(t *testing.T) {
		t.Parallel()

		bare := &backend.Item{}
		_, ok := findFieldValue(bare, "url", "")
		assert.False(t, ok)
	})
}
