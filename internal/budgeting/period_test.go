package budgeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

func TestEndDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		period models.BudgetPeriod
		want   time.Time
	}{
		{"daily", date(2024, time.March, 10), models.BudgetPeriodDaily, time.Date(2024, time.March, 10, 23, 59, 59, 0, time.UTC)},
		{"weekly", date(2024, time.March, 10), models.BudgetPeriodWeekly, time.Date(2024, time.March, 16, 23, 59, 59, 0, time.UTC)},
		{"monthly", date(2024, time.March, 15), models.BudgetPeriodMonthly, time.Date(2024, time.April, 14, 23, 59, 59, 0, time.UTC)},
		{"monthly_first_of_month", date(2024, time.January, 1), models.BudgetPeriodMonthly, time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)},
		{"monthly_leap_february", date(2024, time.January, 31), models.BudgetPeriodMonthly, time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)},
		{"monthly_common_february", date(2023, time.January, 31), models.BudgetPeriodMonthly, time.Date(2023, time.February, 28, 23, 59, 59, 0, time.UTC)},
		{"quarterly", date(2024, time.January, 1), models.BudgetPeriodQuarterly, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)},
		{"quarterly_clamped", date(2024, time.November, 30), models.BudgetPeriodQuarterly, time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)},
		{"yearly", date(2024, time.January, 1), models.BudgetPeriodYearly, time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{"yearly_from_leap_day", date(2024, time.February, 29), models.BudgetPeriodYearly, time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)},
		{"keeps_time_of_day", time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC), models.BudgetPeriodDaily, time.Date(2024, time.March, 11, 9, 29, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndDate(tt.start, tt.period)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEndDateProperties(t *testing.T) {
	periods := []models.BudgetPeriod{
		models.BudgetPeriodDaily,
		models.BudgetPeriodWeekly,
		models.BudgetPeriodMonthly,
		models.BudgetPeriodQuarterly,
		models.BudgetPeriodYearly,
	}

	start := date(2023, time.January, 1)
	for day := 0; day < 800; day += 13 {
		s := start.AddDate(0, 0, day)
		for _, p := range periods {
			end := EndDate(s, p)
			assert.True(t, end.After(s), "%s from %s ends at %s", p, s, end)
			assert.True(t, end.Equal(EndDate(s, p)), "%s from %s is not stable", p, s)
		}
	}
}

func TestEndDateUnknownPeriodPanics(t *testing.T) {
	assert.Panics(t, func() {
		EndDate(date(2024, time.January, 1), models.BudgetPeriod("fortnightly"))
	})
}
