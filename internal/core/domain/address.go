package domain

import (
	"strings"
	"time"
)

// AddressEntry is a curated registry record.
type AddressEntry struct {
	Address   string
	Category  TrustCategory
	Note      string
	CreatedAt time.Time
}

// SameAddress compares two addresses the way the registry keys them.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
