package stats

import (
	"fmt"
	"time"

	"duitku/internal/core"
)

// BuildTrendSeries produces the chart series for the trend view.
//
// For Month it emits one point per calendar day of ref's UTC month, for
// Year one point per calendar month of ref's UTC year. Buckets with no
// expenses are present with a zero amount, and buckets are chronological.
func BuildTrendSeries(expenses []core.Expense, period TimeFrame, ref time.Time) []core.SeriesPoint {
	switch period {
	case Month:
		return monthTrend(expenses, ref)
	case Year:
		return yearTrend(expenses, ref)
	default:
		return nil
	}
}

func monthTrend(expenses []core.Expense, ref time.Time) []core.SeriesPoint {
	year, month, _ := ref.UTC().Date()
	days := daysIn(year, month)

	totals := make([]int64, days+1)
	for _, e := range expenses {
		if SameMonth(e.Date, ref) {
			totals[e.Date.Day()] += e.Amount.Rupiah
		}
	}

	points := make([]core.SeriesPoint, 0, days)
	for day := 1; day <= days; day++ {
		points = append(points, core.SeriesPoint{
			Label:  fmt.Sprintf("%02d", day),
			Amount: core.Money{Rupiah: totals[day]},
		})
	}
	return points
}

func yearTrend(expenses []core.Expense, ref time.Time) []core.SeriesPoint {
	totals := make([]int64, 13)
	for _, e := range expenses {
		if SameYear(e.Date, ref) {
			totals[e.Date.Month()] += e.Amount.Rupiah
		}
	}

	points := make([]core.SeriesPoint, 0, 12)
	for month := time.January; month <= time.December; month++ {
		points = append(points, core.SeriesPoint{
			Label:  month.String()[:3],
			Amount: core.Money{Rupiah: totals[month]},
		})
	}
	return points
}

// BuildCategorySeries produces one point per distinct embedded category
// name, in first-encounter order. Names, not ids, are the join key here:
// two categories sharing a name merge into one bucket.
func BuildCategorySeries(expenses []core.Expense) []core.SeriesPoint {
	totals := make(map[string]int64)
	var order []string
	for _, e := range expenses {
		name := e.Category.Name
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += e.Amount.Rupiah
	}

	points := make([]core.SeriesPoint, 0, len(order))
	for _, name := range order {
		points = append(points, core.SeriesPoint{
			Label:  name,
			Amount: core.Money{Rupiah: totals[name]},
		})
	}
	return points
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
