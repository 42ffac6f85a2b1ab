// Package admin exposes registry curation behind the session gate.
package admin

import (
	"context"

	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/core/registry"
	"github.com/vietddude/crosspay/internal/core/session"
)

// Gate is the login check guarding mutations.
type Gate interface {
	Require(ctx context.Context) error
}

// Panel is the admin surface over the registry. Reads are open; every
// mutation returns session.ErrUnauthorized without a live session.
type Panel struct {
	gate     Gate
	registry *registry.Registry
}

func NewPanel(gate Gate, reg *registry.Registry) *Panel {
	return &Panel{gate: gate, registry: reg}
}

// List returns all registered addresses, newest first.
func (p *Panel) List(ctx context.Context) []domain.AddressEntry {
	return p.registry.List(ctx)
}

// Lookup finds a registered address.
func (p *Panel) Lookup(ctx context.Context, address string) (domain.AddressEntry, bool) {
	return p.registry.Find(ctx, address)
}

// Add registers address, replacing a case-insensitive duplicate.
func (p *Panel) Add(ctx context.Context, address string, category domain.TrustCategory, note string) (domain.AddressEntry, error) {
	if err := p.gate.Require(ctx); err != nil {
		return domain.AddressEntry{}, err
	}
	return p.registry.Add(ctx, address, category, note)
}

// Update edits the entry registered as original.
func (p *Panel) Update(ctx context.Context, original, address string, category domain.TrustCategory, note string) (domain.AddressEntry, error) {
	if err := p.gate.Require(ctx); err != nil {
		return domain.AddressEntry{}, err
	}
	return p.registry.Update(ctx, original, address, category, note)
}

// Remove deletes address from the registry.
func (p *Panel) Remove(ctx context.Context, address string) error {
	if err := p.gate.Require(ctx); err != nil {
		return err
	}
	return p.registry.Remove(ctx, address)
}

// ClearAll wipes the registry and the transaction log.
func (p *Panel) ClearAll(ctx context.Context) error {
	if err := p.gate.Require(ctx); err != nil {
		return err
	}
	return p.registry.Clear(ctx)
}

var _ Gate = (*session.Gate)(nil)
