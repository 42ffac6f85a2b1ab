package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCategory is returned when a category is not one of A, B, C or D.
var ErrInvalidCategory = errors.New("invalid trust category")

// TrustCategory is one of the four fixed risk tiers assigned to an address.
type TrustCategory string

const (
	CategoryA TrustCategory = "A"
	CategoryB TrustCategory = "B"
	CategoryC TrustCategory = "C"
	CategoryD TrustCategory = "D"

	// LowestTrust is the category assumed for addresses missing from the registry.
	LowestTrust = CategoryD
)

// TrustRange is the numeric score band covered by a category.
type TrustRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r TrustRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// CategoryInfo holds the display and advisory data for a category.
type CategoryInfo struct {
	Label      string     `json:"label"`
	TrustRange TrustRange `json:"trust_range"`
	Color      string     `json:"color"`
	BgColor    string     `json:"bg_color"`
	TextColor  string     `json:"text_color"`
	Advice     string     `json:"advice"`
}

var categoryTable = map[TrustCategory]CategoryInfo{
	CategoryA: {
		Label:      "Trustworthy",
		TrustRange: TrustRange{Min: 80, Max: 100},
		Color:      "green",
		BgColor:    "bg-green-100",
		TextColor:  "text-green-800",
		Advice:     "This address is highly trusted. Safe to proceed.",
	},
	CategoryB: {
		Label:      "Good",
		TrustRange: TrustRange{Min: 60, Max: 80},
		Color:      "light-green",
		BgColor:    "bg-green-50",
		TextColor:  "text-green-700",
		Advice:     "This address has a good reputation. Generally safe to proceed.",
	},
	CategoryC: {
		Label:      "Suspicious",
		TrustRange: TrustRange{Min: 40, Max: 60},
		Color:      "orange",
		BgColor:    "bg-orange-100",
		TextColor:  "text-orange-800",
		Advice:     "This address has mixed reviews. Proceed with caution.",
	},
	CategoryD: {
		Label:      "Not Safe",
		TrustRange: TrustRange{Min: 0, Max: 40},
		Color:      "red",
		BgColor:    "bg-red-100",
		TextColor:  "text-red-800",
		Advice:     "This address is flagged as risky. Not recommended for transactions.",
	},
}

// Categories returns all categories from most to least trusted.
func Categories() []TrustCategory {
	return []TrustCategory{CategoryA, CategoryB, CategoryC, CategoryD}
}

// Valid reports whether c is one of the four known categories.
func (c TrustCategory) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Info returns the static table row for c. Unknown categories get the
// lowest-trust row.
func (c TrustCategory) Info() CategoryInfo {
	if info, ok := categoryTable[c]; ok {
		return info
	}
	return categoryTable[LowestTrust]
}

// ParseCategory accepts "a".."d" in either case.
func ParseCategory(s string) (TrustCategory, error) {
	c := TrustCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
