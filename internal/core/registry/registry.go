// Package registry manages the admin-curated list of known addresses.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/metrics"
)

var (
	// ErrAddressRequired is returned for a blank address
	ErrAddressRequired = errors.New("address is required")

	// ErrNotFound is returned when editing an address that isn't registered
	ErrNotFound = errors.New("address not found")
)

// Store is the persistence the registry needs.
type Store interface {
	Addresses(ctx context.Context) []domain.AddressEntry
	SaveAddresses(ctx context.Context, entries []domain.AddressEntry) error
	ClearAll(ctx context.Context) error
}

// Registry maps addresses to trust categories. Keys are unique under
// case-insensitive comparison.
type Registry struct {
	store Store
	now   func() time.Time
}

// New creates a Registry. A nil clock means time.Now.
func New(store Store, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{store: store, now: now}
}

// List returns all entries, most recently created first.
func (r *Registry) List(ctx context.Context) []domain.AddressEntry {
	entries := r.store.Addresses(ctx)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// Find looks up address with a case-insensitive exact match.
func (r *Registry) Find(ctx context.Context, address string) (domain.AddressEntry, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.AddressEntry{}, false
	}
	for _, e := range r.store.Addresses(ctx) {
		if domain.SameAddress(e.Address, address) {
			return e, true
		}
	}
	return domain.AddressEntry{}, false
}

// Add inserts address, or replaces the entry whose address matches it
// case-insensitively. The replacement keeps its slot but takes the new
// spelling, category, note and creation time.
func (r *Registry) Add(ctx context.Context, address string, category domain.TrustCategory, note string) (domain.AddressEntry, error) {
	entry, err := r.newEntry(address, category, note)
	if err != nil {
		return domain.AddressEntry{}, err
	}

	entries := upsert(r.store.Addresses(ctx), entry)
	if err := r.store.SaveAddresses(ctx, entries); err != nil {
		return domain.AddressEntry{}, err
	}
	metrics.RegistryMutations.WithLabelValues("add").Inc()
	return entry, nil
}

// Update edits the entry registered as original. Changing the spelling of
// the address drops the old key before the new one is upserted.
func (r *Registry) Update(ctx context.Context, original, address string, category domain.TrustCategory, note string) (domain.AddressEntry, error) {
	entry, err := r.newEntry(address, category, note)
	if err != nil {
		return domain.AddressEntry{}, err
	}

	entries := r.store.Addresses(ctx)
	idx := indexOf(entries, strings.TrimSpace(original))
	if idx < 0 {
		return domain.AddressEntry{}, fmt.Errorf("%w: %s", ErrNotFound, original)
	}

	if domain.SameAddress(entries[idx].Address, entry.Address) {
		entries[idx] = entry
	} else {
		entries = append(entries[:idx], entries[idx+1:]...)
		entries = upsert(entries, entry)
	}

	if err := r.store.SaveAddresses(ctx, entries); err != nil {
		return domain.AddressEntry{}, err
	}
	metrics.RegistryMutations.WithLabelValues("update").Inc()
	return entry, nil
}

// Remove deletes address. Removing an unknown address is a no-op write.
func (r *Registry) Remove(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	entries := r.store.Addresses(ctx)
	kept := entries[:0]
	for _, e := range entries {
		if !domain.SameAddress(e.Address, address) {
			kept = append(kept, e)
		}
	}
	if err := r.store.SaveAddresses(ctx, kept); err != nil {
		return err
	}
	metrics.RegistryMutations.WithLabelValues("remove").Inc()
	return nil
}

// Clear wipes the registry together with the transaction log.
func (r *Registry) Clear(ctx context.Context) error {
	if err := r.store.ClearAll(ctx); err != nil {
		return err
	}
	metrics.RegistryMutations.WithLabelValues("clear").Inc()
	return nil
}

// SeedDemo writes one sample address per category when the registry is empty.
// It reports whether anything was written.
func (r *Registry) SeedDemo(ctx context.Context) (bool, error) {
	if len(r.store.Addresses(ctx)) > 0 {
		return false, nil
	}

	now := r.now()
	demo := []domain.AddressEntry{
		{
			Address:   "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
			Category:  domain.CategoryA,
			Note:      "Major exchange wallet",
			CreatedAt: now.Add(-7 * 24 * time.Hour),
		},
		{
			Address:   "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy",
			Category:  domain.CategoryB,
			Note:      "Verified merchant",
			CreatedAt: now.Add(-3 * 24 * time.Hour),
		},
		{
			Address:   "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
			Category:  domain.CategoryC,
			Note:      "Mixed transaction history",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			Address:   "1FeexV6bAHb8ybZjqQMjJrcCrHGW9sb6uF",
			Category:  domain.CategoryD,
			Note:      "Flagged for suspicious activity",
			CreatedAt: now.Add(-30 * time.Minute),
		},
	}
	if err := r.store.SaveAddresses(ctx, demo); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registry) newEntry(address string, category domain.TrustCategory, note string) (domain.AddressEntry, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.AddressEntry{}, ErrAddressRequired
	}
	if !category.Valid() {
		return domain.AddressEntry{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	return domain.AddressEntry{
		Address:   address,
		Category:  category,
		Note:      strings.TrimSpace(note),
		CreatedAt: r.now(),
	}, nil
}

func indexOf(entries []domain.AddressEntry, address string) int {
	for i, e := range entries {
		if domain.SameAddress(e.Address, address) {
			return i
		}
	}
	return -1
}

func upsert(entries []domain.AddressEntry, entry domain.AddressEntry) []domain.AddressEntry {
	if i := indexOf(entries, entry.Address); i >= 0 {
		entries[i] = entry
		return entries
	}
	return append(entries, entry)
}
