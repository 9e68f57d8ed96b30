package stats

import (
	"time"

	"duitku/internal/core"
)

// noData is the sentinel returned when a window holds no expenses.
var noData = core.EntityAmount{Name: "Unknown", Amount: core.Money{}}

// ComputeDashboardStats derives the dashboard view from the full expense
// collection at the given reference instant. The categories and sources
// collections resolve current display names; an expense whose category or
// source has since been deleted falls back to its embedded snapshot name.
func ComputeDashboardStats(expenses []core.Expense, ref time.Time, categories []core.Category, sources []core.Source) core.DashboardStats {
	stats := core.DashboardStats{
		HighestCategory: noData,
		TopSource:       noData,
	}

	var monthly []core.Expense
	for _, e := range expenses {
		if SameDay(e.Date, ref) {
			stats.TotalToday.Rupiah += e.Amount.Rupiah
		}
		if SameMonth(e.Date, ref) {
			stats.TotalThisMonth.Rupiah += e.Amount.Rupiah
			monthly = append(monthly, e)
		}
		if SameYear(e.Date, ref) {
			stats.TotalThisYear.Rupiah += e.Amount.Rupiah
		}
	}

	if len(monthly) == 0 {
		return stats
	}

	catNames := make(map[string]string, len(categories))
	for _, c := range categories {
		catNames[c.ID] = c.Name
	}
	srcNames := make(map[string]string, len(sources))
	for _, s := range sources {
		srcNames[s.ID] = s.Name
	}

	catTotals := make(map[string]int64)
	srcTotals := make(map[string]int64)
	catSnapshots := make(map[string]string)
	srcSnapshots := make(map[string]string)
	for _, e := range monthly {
		catTotals[e.Category.ID] += e.Amount.Rupiah
		srcTotals[e.Source.ID] += e.Amount.Rupiah
		catSnapshots[e.Category.ID] = e.Category.Name
		srcSnapshots[e.Source.ID] = e.Source.Name
	}

	topCatID, topCatSum := pickTop(catTotals)
	stats.HighestCategory = core.EntityAmount{
		Name:   resolveName(topCatID, catNames, catSnapshots),
		Amount: core.Money{Rupiah: topCatSum},
	}

	topSrcID, topSrcSum := pickTop(srcTotals)
	stats.TopSource = core.EntityAmount{
		Name:   resolveName(topSrcID, srcNames, srcSnapshots),
		Amount: core.Money{Rupiah: topSrcSum},
	}

	return stats
}

// pickTop returns the id with the maximum summed amount. Ties are broken
// by the lexicographically smallest id so the winner is deterministic
// regardless of map iteration order.
func pickTop(totals map[string]int64) (string, int64) {
	var topID string
	var topSum int64
	first := true
	for id, sum := range totals {
		switch {
		case first, sum > topSum:
			topID, topSum = id, sum
			first = false
		case sum == topSum && id < topID:
			topID = id
		}
	}
	return topID, topSum
}

func resolveName(id string, current, snapshots map[string]string) string {
	if name, ok := current[id]; ok {
		return name
	}
	if name, ok := snapshots[id]; ok {
		return name
	}
	return "Unknown"
}
