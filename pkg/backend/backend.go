// Package backend defines the interface vaultfill uses to talk to the
// secrets backend.
//
// The resolution engine never shells out or speaks a wire protocol
// itself; everything it needs from the vault service is expressed as
// the three operations on Client. The production implementation wraps
// the `op` CLI (see internal/backend/opcli); tests substitute an
// in-memory fake.
//
// Implementations must support context cancellation on every call and
// must never log secret values.
package backend

import "context"

// Client is the backend collaborator consumed by the resolution engine.
//
// FetchItem looks an item up by name or id inside a single vault
// (named by id or by name). ListVaults enumerates every vault the
// current credentials can see, in the backend's listing order.
// ValidateAccess is the single upfront authentication gate; it returns
// an error when the CLI session, service account, or Connect
// credentials are missing or expired.
type Client interface {
	FetchItem(ctx context.Context, item, vault string) (*Item, error)
	ListVaults(ctx context.Context) ([]Vault, error)
	ValidateAccess(ctx context.Context) error
}

// Vault identifies a vault by its backend id and display name.
type Vault struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is the semi-structured record returned by the backend for a
// single vault item. Field order is significant: lookups scan fields
// in the order the backend returned them.
type Item struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Vault  Vault   `json:"vault"`
	Fields []Field `json:"fields"`
	URLs   []URL   `json:"urls,omitempty"`
}

// Field is one entry of an item, optionally grouped under a section.
type Field struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Value   string   `json:"value,omitempty"`
	Section *Section `json:"section,omitempty"`
}

// Section groups related fields within an item.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// URL is a website entry attached to an item. At most one entry is
// marked primary.
type URL struct {
	Label   string `json:"label,omitempty"`
	Primary bool   `json:"primary"`
	Href    string `json:"href"`
}

// NotFoundError indicates the requested item does not exist in the
// queried vault.
type NotFoundError struct {
	Item  string
	Vault string
}

func (e NotFoundError) Error() string {
	return "item not found: " + e.Item + " in vault " + e.Vault
}

// AuthError indicates the backend rejected the current credentials.
type AuthError struct {
	Message string
}

func (e AuthError) Error() string {
	return "backend authentication failed: " + e.Message
}
