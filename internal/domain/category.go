package domain

import (
	"fmt"
	"strings"
)

// TaxpayerCategory selects the zero-rate threshold that applies to a taxpayer.
// Only the first slab differs between categories.
type TaxpayerCategory string

const (
	CategoryMen                   TaxpayerCategory = "men"
	CategoryWomen                 TaxpayerCategory = "women"
	CategoryDisabledOrThirdGender TaxpayerCategory = "disabled_or_third_gender"
	CategoryFreedomFighter        TaxpayerCategory = "freedom_fighter"
)

// AllCategories lists every category in display order.
var AllCategories = []TaxpayerCategory{
	CategoryMen,
	CategoryWomen,
	CategoryDisabledOrThirdGender,
	CategoryFreedomFighter,
}

var categoryAliases = map[string]TaxpayerCategory{
	"":                         CategoryMen,
	"men":                      CategoryMen,
	"male":                     CategoryMen,
	"general":                  CategoryMen,
	"women":                    CategoryWomen,
	"female":                   CategoryWomen,
	"disabled":                 CategoryDisabledOrThirdGender,
	"third_gender":             CategoryDisabledOrThirdGender,
	"disabled_or_third_gender": CategoryDisabledOrThirdGender,
	"freedom_fighter":          CategoryFreedomFighter,
}

// ParseCategory resolves user input (case-insensitive, '-' or ' ' as '_') to a category.
// An empty string resolves to CategoryMen.
func ParseCategory(s string) (TaxpayerCategory, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown taxpayer category %q", s)
}

// Valid reports whether c is one of the known categories.
func (c TaxpayerCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Label is the human readable name.
func (c TaxpayerCategory) Label() string {
	switch c {
	case CategoryMen:
		return "Men"
	case CategoryWomen:
		return "Women"
	case CategoryDisabledOrThirdGender:
		return "Disabled / Third Gender"
	case CategoryFreedomFighter:
		return "Freedom Fighter"
	default:
		return string(c)
	}
}
