package budgeting

import (
	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// Status is the coarse health label shown for a budget.
type Status string

const (
	StatusOnTrack    Status = "on_track"
	StatusWarning    Status = "warning"
	StatusOverBudget Status = "over_budget"
)

// AlertLevel is the notification level of a budget or of a simulated transition.
type AlertLevel string

const (
	AlertNone        AlertLevel = "none"
	AlertApproaching AlertLevel = "approaching"
	AlertExceeded    AlertLevel = "exceeded"
)

var (
	warningPercent    = decimal.NewFromInt(80)
	overBudgetPercent = decimal.NewFromInt(100)

	// DefaultAlertAt80Percent and DefaultAlertAt100Percent are the alert fractions a
	// new budget gets when none are supplied.
	DefaultAlertAt80Percent  = decimal.RequireFromString("0.8")
	DefaultAlertAt100Percent = decimal.NewFromInt(1)
)

// Classify labels a budget from what has been spent against what was allocated.
// The 80/100 cut-offs are fixed; per-budget alert fractions do not move them.
func Classify(spent, allocated decimal.Decimal) Status {
	return ClassifyPercentage(Percentage(spent, allocated))
}

// ClassifyPercentage labels an already computed spent percentage.
func ClassifyPercentage(pct decimal.Decimal) Status {
	switch {
	case pct.GreaterThanOrEqual(overBudgetPercent):
		return StatusOverBudget
	case pct.GreaterThanOrEqual(warningPercent):
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// ThresholdAlert evaluates the budget's own alert fractions against pct. It is
// independent of Classify: a budget alerting at 0.9 is still labelled Warning at 80%.
func ThresholdAlert(b *models.Budget, pct decimal.Decimal) AlertLevel {
	if !b.AlertsEnabled {
		return AlertNone
	}
	approaching := b.AlertAt80Percent
	if !approaching.IsPositive() {
		approaching = DefaultAlertAt80Percent
	}
	exceeded := b.AlertAt100Percent
	if !exceeded.IsPositive() {
		exceeded = DefaultAlertAt100Percent
	}

	ratio := pct.Div(hundred)
	switch {
	case ratio.GreaterThanOrEqual(exceeded):
		return AlertExceeded
	case ratio.GreaterThanOrEqual(approaching):
		return AlertApproaching
	default:
		return AlertNone
	}
}

// TransitionAlert reports the alert raised by moving from before to after.
// Crossing into OverBudget from any other status is AlertExceeded; moving from
// OnTrack to Warning is AlertApproaching; anything else raises nothing.
func TransitionAlert(before, after Status) AlertLevel {
	switch {
	case before != StatusOverBudget && after == StatusOverBudget:
		return AlertExceeded
	case before == StatusOnTrack && after == StatusWarning:
		return AlertApproaching
	default:
		return AlertNone
	}
}
