// Package classifier resolves a destination address to its trust category.
package classifier

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/metrics"
)

// ErrAddressRequired is returned for a blank address.
var ErrAddressRequired = errors.New("recipient address is required")

// Finder looks up registered addresses.
type Finder interface {
	Find(ctx context.Context, address string) (domain.AddressEntry, bool)
}

// Classification is the outcome of a lookup.
type Classification struct {
	// Address is the registered spelling when Found, otherwise the trimmed input.
	Address  string
	Category domain.TrustCategory
	Note     string
	Found    bool
}

// Info returns the category table row.
func (c Classification) Info() domain.CategoryInfo {
	return c.Category.Info()
}

// Risky reports whether the category is C or D.
func (c Classification) Risky() bool {
	return c.Category == domain.CategoryC || c.Category == domain.CategoryD
}

// Classifier classifies addresses against the registry. It never writes.
type Classifier struct {
	finder Finder
}

func New(finder Finder) *Classifier {
	return &Classifier{finder: finder}
}

// Classify returns the stored category for known addresses and the lowest
// trust category for anything else.
func (c *Classifier) Classify(ctx context.Context, address string) (Classification, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Classification{}, ErrAddressRequired
	}

	result := Classification{Address: address, Category: domain.LowestTrust}
	if entry, ok := c.finder.Find(ctx, address); ok {
		result = Classification{
			Address:  entry.Address,
			Category: entry.Category,
			Note:     entry.Note,
			Found:    true,
		}
	}

	metrics.Lookups.WithLabelValues(string(result.Category), strconv.FormatBool(result.Found)).Inc()
	return result, nil
}
