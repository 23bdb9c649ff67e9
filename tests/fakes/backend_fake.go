// Package fakes provides manual fake implementations for testing.
//
// Fakes are test doubles with working in-memory implementations. The
// fake backend client mimics the real backend's addressing rules
// (items match by id or title, vaults by id or name, both
// case-insensitive) and records every fetch so tests can assert call
// counts and ordering.
package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/systmms/vaultfill/pkg/backend"
)

// FetchCall records one FetchItem invocation in order of occurrence.
type FetchCall struct {
	Item  string
	Vault string
}

// FakeClient is a manual fake implementation of backend.Client.
//
// Example:
//
//	fake := fakes.NewFakeClient().
//	    WithItem(&backend.Item{ID: "item1", Title: "Login", ...}).
//	    WithFetchError("vault1", "item1", errors.New("unreachable"))
type FakeClient struct {
	items  []*backend.Item
	vaults []backend.Vault

	failFetch   map[string]error // lowercased "vault/item" -> error
	validateErr error
	listErr     error
	fetchCalls  []FetchCall
	callCount   map[string]int

	mu sync.RWMutex
}

// NewFakeClient creates an empty fake backend.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		failFetch: make(map[string]error),
		callCount: make(map[string]int),
	}
}

// WithItem adds an item the fake can serve.
func (f *FakeClient) WithItem(item *backend.Item) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	return f
}

// WithVaults sets the vault listing.
func (f *FakeClient) WithVaults(vaults ...backend.Vault) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vaults = vaults
	return f
}

// WithFetchError makes fetches of (vault, item) fail with err. The
// match against the fetch arguments is case-insensitive.
func (f *FakeClient) WithFetchError(vault, item string, err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFetch[fetchKey(vault, item)] = err
	return f
}

// WithValidateError makes ValidateAccess fail.
func (f *FakeClient) WithValidateError(err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validateErr = err
	return f
}

// WithListError makes ListVaults fail.
func (f *FakeClient) WithListError(err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
	return f
}

// FetchItem serves a configured item, matching item by id or title and
// vault by id or name, case-insensitive, like the real backend.
func (f *FakeClient) FetchItem(ctx context.Context, item, vault string) (*backend.Item, error) {
	f.mu.Lock()
	f.callCount["FetchItem"]++
	f.fetchCalls = append(f.fetchCalls, FetchCall{Item: item, Vault: vault})
	f.mu.Unlock()

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err, ok := f.failFetch[fetchKey(vault, item)]; ok {
		return nil, err
	}

	for _, candidate := range f.items {
		if !strings.EqualFold(candidate.ID, item) && !strings.EqualFold(candidate.Title, item) {
			continue
		}
		if strings.EqualFold(candidate.Vault.ID, vault) || strings.EqualFold(candidate.Vault.Name, vault) {
			return candidate, nil
		}
	}

	return nil, backend.NotFoundError{Item: item, Vault: vault}
}

// ListVaults returns the configured vault list.
func (f *FakeClient) ListVaults(ctx context.Context) ([]backend.Vault, error) {
	f.mu.Lock()
	f.callCount["ListVaults"]++
	f.mu.Unlock()

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.vaults, nil
}

// ValidateAccess succeeds unless configured otherwise.
func (f *FakeClient) ValidateAccess(ctx context.Context) error {
	f.mu.Lock()
	f.callCount["ValidateAccess"]++
	f.mu.Unlock()

	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.validateErr
}

// FetchCalls returns every FetchItem invocation in order.
func (f *FakeClient) FetchCalls() []FetchCall {
	f.mu.RLock()
	defer f.mu.RUnlock()
	calls := make([]FetchCall, len(f.fetchCalls))
	copy(calls, f.fetchCalls)
	return calls
}

// CallCount returns how many times a method was called.
// Method names: "FetchItem", "ListVaults", "ValidateAccess".
func (f *FakeClient) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.callCount[method]
}

func fetchKey(vault, item string) string {
	return strings.ToLower(vault) + "/" + strings.ToLower(item)
}

// String returns a short description for test failure output.
func (f *FakeClient) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return fmt.Sprintf("FakeClient{items=%d, vaults=%d}", len(f.items), len(f.vaults))
}
