package stats

import (
	"sort"
	"time"

	"duitku/internal/core"
)

// FilterAll is the sentinel meaning "no category/source constraint".
const FilterAll = "all"

// FilterExpenses returns the expenses inside the tf window anchored at
// ref, optionally narrowed to one embedded category and/or source id.
// An empty id or FilterAll skips that constraint.
//
// The result is sorted by date, most recent first. The sort is stable:
// equal dates keep their relative input order. The input slice is never
// mutated.
func FilterExpenses(expenses []core.Expense, tf TimeFrame, categoryID, sourceID string, ref time.Time) []core.Expense {
	filtered := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !InWindow(e.Date, tf, ref) {
			continue
		}
		if categoryID != "" && categoryID != FilterAll && e.Category.ID != categoryID {
			continue
		}
		if sourceID != "" && sourceID != FilterAll && e.Source.ID != sourceID {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date.Time)
	})
	return filtered
}
