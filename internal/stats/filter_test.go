package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duitku/internal/core"
)

func TestFilterExpensesWindows(t *testing.T) {
	ref := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("today", core.NewDate(2024, 3, 15), 1000, catFood, srcCash),
		expense("month", core.NewDate(2024, 3, 2), 2000, catFood, srcCash),
		expense("year", core.NewDate(2024, 11, 20), 4000, catFood, srcCash),
		expense("old", core.NewDate(2023, 3, 15), 8000, catFood, srcCash),
	}

	ids := func(es []core.Expense) []string {
		out := make([]string, 0, len(es))
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	day := FilterExpenses(expenses, Day, "", "", ref)
	month := FilterExpenses(expenses, Month, "", "", ref)
	year := FilterExpenses(expenses, Year, "", "", ref)

	assert.Equal(t, []string{"today"}, ids(day))
	assert.Equal(t, []string{"today", "month"}, ids(month))
	assert.Equal(t, []string{"year", "today", "month"}, ids(year))

	// Every day-window expense is in the month and year windows.
	for _, e := range day {
		assert.Contains(t, month, e)
		assert.Contains(t, year, e)
	}
	for _, e := range month {
		assert.Contains(t, year, e)
	}
}

func TestFilterExpensesMatchesAggregationWindows(t *testing.T) {
	// The filter engine and the aggregation engine must agree on what
	// "today", "this month" and "this year" mean.
	ref := time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC) // leap day
	expenses := []core.Expense{
		expense("a", core.NewDate(2024, 2, 29), 100, catFood, srcCash),
		expense("b", core.NewDate(2024, 2, 1), 200, catFood, srcCash),
		expense("c", core.NewDate(2024, 7, 4), 400, catFood, srcCash),
		expense("d", core.NewDate(2022, 2, 28), 800, catFood, srcCash),
	}

	sum := func(es []core.Expense) int64 {
		var total int64
		for _, e := range es {
			total += e.Amount.Rupiah
		}
		return total
	}

	agg := ComputeDashboardStats(expenses, ref, []core.Category{catFood}, []core.Source{srcCash})

	require.Equal(t, agg.TotalToday.Rupiah, sum(FilterExpenses(expenses, Day, "", "", ref)))
	require.Equal(t, agg.TotalThisMonth.Rupiah, sum(FilterExpenses(expenses, Month, "", "", ref)))
	require.Equal(t, agg.TotalThisYear.Rupiah, sum(FilterExpenses(expenses, Year, "", "", ref)))
}

func TestFilterExpensesByCategoryAndSource(t *testing.T) {
	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("e1", core.NewDate(2024, 3, 5), 1000, catFood, srcCash),
		expense("e2", core.NewDate(2024, 3, 6), 2000, catTransport, srcCash),
		expense("e3", core.NewDate(2024, 3, 7), 4000, catFood, srcGopay),
	}

	byCat := FilterExpenses(expenses, Month, catFood.ID, "", ref)
	require.Len(t, byCat, 2)
	for _, e := range byCat {
		assert.Equal(t, catFood.ID, e.Category.ID)
	}

	bySrc := FilterExpenses(expenses, Month, "", srcGopay.ID, ref)
	require.Len(t, bySrc, 1)
	assert.Equal(t, "e3", bySrc[0].ID)

	both := FilterExpenses(expenses, Month, catFood.ID, srcCash.ID, ref)
	require.Len(t, both, 1)
	assert.Equal(t, "e1", both[0].ID)

	// "all" and "" are equivalent sentinels.
	assert.Equal(t,
		FilterExpenses(expenses, Month, "", "", ref),
		FilterExpenses(expenses, Month, FilterAll, FilterAll, ref))
}

func TestFilterExpensesSortedNewestFirstStable(t *testing.T) {
	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("first", core.NewDate(2024, 3, 10), 1000, catFood, srcCash),
		expense("second", core.NewDate(2024, 3, 10), 2000, catFood, srcCash),
		expense("newer", core.NewDate(2024, 3, 12), 3000, catFood, srcCash),
		expense("third", core.NewDate(2024, 3, 10), 4000, catFood, srcCash),
	}

	got := FilterExpenses(expenses, Month, "", "", ref)
	require.Len(t, got, 4)
	assert.Equal(t, "newer", got[0].ID)
	// Equal dates preserve input order.
	assert.Equal(t, "first", got[1].ID)
	assert.Equal(t, "second", got[2].ID)
	assert.Equal(t, "third", got[3].ID)

	// Input order untouched.
	assert.Equal(t, "first", expenses[0].ID)
}

func TestFilterExpensesInvalidTimeFrame(t *testing.T) {
	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense("e1", core.NewDate(2024, 3, 5), 1000, catFood, srcCash),
	}

	assert.Empty(t, FilterExpenses(expenses, TimeFrame("week"), "", "", ref))
	assert.False(t, TimeFrame("week").Valid())
	assert.True(t, Month.Valid())
}
