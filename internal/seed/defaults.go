// Package seed holds the default categories and payment sources written
// on first start. The defaults are product configuration, not core
// logic, so both sets can be overridden by JSON files in the data
// directory (seed_categories.json, seed_sources.json).
package seed

import (
	"encoding/json"
	"os"
	"path/filepath"

	"duitku/internal/core"
)

// DefaultCategories returns the six stock expense categories.
func DefaultCategories() []core.Category {
	return []core.Category{
		{ID: "food-drinks", Name: "Food & Drinks", Icon: "🍽️", Color: "#FF6B6B"},
		{ID: "transportation", Name: "Transportation", Icon: "🚗", Color: "#4ECDC4"},
		{ID: "bills-utilities", Name: "Bills & Utilities", Icon: "⚡", Color: "#45B7D1"},
		{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Color: "#96CEB4"},
		{ID: "health", Name: "Health", Icon: "🏥", Color: "#FFEAA7"},
		{ID: "others", Name: "Others", Icon: "📦", Color: "#DDA0DD"},
	}
}

// DefaultSources returns the nine stock payment sources spanning bank,
// e-wallet and cash types.
func DefaultSources() []core.Source {
	sources := []core.Source{
		{ID: "bri", Name: "BRI", Type: core.Bank},
		{ID: "mandiri", Name: "Mandiri", Type: core.Bank},
		{ID: "bca", Name: "BCA", Type: core.Bank},
		{ID: "bni", Name: "BNI", Type: core.Bank},
		{ID: "gopay", Name: "GoPay", Type: core.EWallet},
		{ID: "ovo", Name: "OVO", Type: core.EWallet},
		{ID: "shopeepay", Name: "ShopeePay", Type: core.EWallet},
		{ID: "linkaja", Name: "LinkAja", Type: core.EWallet},
		{ID: "cash", Name: "Cash", Type: core.Cash},
	}
	for i := range sources {
		sources[i].Icon = sources[i].Type.Icon()
	}
	return sources
}

// CategoriesFromDir loads seed categories from dir, falling back to the
// built-in defaults when no override file exists or it cannot be read.
func CategoriesFromDir(dir string) []core.Category {
	var cats []core.Category
	if readJSON(filepath.Join(dir, "seed_categories.json"), &cats) && len(cats) > 0 {
		return cats
	}
	return DefaultCategories()
}

// SourcesFromDir loads seed sources from dir, falling back to the
// built-in defaults. Icons are always derived from the source type.
func SourcesFromDir(dir string) []core.Source {
	var sources []core.Source
	if readJSON(filepath.Join(dir, "seed_sources.json"), &sources) && len(sources) > 0 {
		for i := range sources {
			sources[i].Icon = sources[i].Type.Icon()
		}
		return sources
	}
	return DefaultSources()
}

func readJSON(path string, v any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
