package budgeting

import (
	"fmt"
	"time"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// EndDate returns the last instant, at one-second resolution, of the window that
// opens at start and spans one period.
//
// Calendar periods clamp to the last day of the resulting month. When that clamp
// applies the window runs through the end of the clamped day, so a monthly window
// opened on 2024-01-31 closes at 2024-02-29T23:59:59.
//
// EndDate panics on a period that is not one of the models.BudgetPeriod constants.
// Callers validate user input with BudgetPeriod.Valid first.
func EndDate(start time.Time, period models.BudgetPeriod) time.Time {
	switch period {
	case models.BudgetPeriodDaily:
		return start.AddDate(0, 0, 1).Add(-time.Second)
	case models.BudgetPeriodWeekly:
		return start.AddDate(0, 0, 7).Add(-time.Second)
	case models.BudgetPeriodMonthly:
		return endAfterMonths(start, 1)
	case models.BudgetPeriodQuarterly:
		return endAfterMonths(start, 3)
	case models.BudgetPeriodYearly:
		return endAfterMonths(start, 12)
	}
	panic(fmt.Sprintf("budgeting: unknown budget period %q", period))
}

func endAfterMonths(start time.Time, months int) time.Time {
	next, clamped := addMonthsClamped(start, months)
	if clamped {
		y, m, d := next.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, next.Location()).Add(-time.Second)
	}
	return next.Add(-time.Second)
}

// addMonthsClamped adds months to t keeping the day of month when it exists in the
// target month and using the target month's last day otherwise.
func addMonthsClamped(t time.Time, months int) (time.Time, bool) {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := daysIn(first.Year(), first.Month())
	if d > last {
		return first.AddDate(0, 0, last-1), true
	}
	return first.AddDate(0, 0, d-1), false
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
