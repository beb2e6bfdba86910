package budgeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	b := monthlyBudget("b", "food", usd, "1000", date(2024, time.March, 1))
	now := time.Date(2024, time.March, 22, 0, 0, 0, 0, time.UTC)

	s := Summarize(&b, dec("850"), now)
	assertDecimal(t, "1000", s.Budgeted)
	assertDecimal(t, "850", s.Spent)
	assertDecimal(t, "150", s.Remaining)
	assertDecimal(t, "85", s.Percentage)
	assert.Equal(t, StatusWarning, s.Status)
	assert.Equal(t, AlertApproaching, s.AlertLevel)
	assert.Equal(t, 10, s.DaysRemaining)
	assertDecimal(t, "15", s.DailyAllowance)
}

func TestSummarizeOverBudget(t *testing.T) {
	b := monthlyBudget("b", "food", usd, "100", date(2024, time.March, 1))
	s := Summarize(&b, dec("120"), testNow)

	assert.Equal(t, StatusOverBudget, s.Status)
	assert.Equal(t, AlertExceeded, s.AlertLevel)
	assertDecimal(t, "-20", s.Remaining)
	assertDecimal(t, "0", s.DailyAllowance)
}

func TestDaysRemaining(t *testing.T) {
	b := monthlyBudget("b", "food", usd, "100", date(2024, time.March, 1))

	assert.Equal(t, 31, DaysRemaining(&b, date(2024, time.February, 1)))
	assert.Equal(t, 1, DaysRemaining(&b, date(2024, time.March, 31)))
	assert.Equal(t, 0, DaysRemaining(&b, date(2024, time.April, 1)))
}
