package budgeting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		spent     string
		allocated string
		want      Status
	}{
		{"0", "1000", StatusOnTrack},
		{"79.99", "100", StatusOnTrack},
		{"80", "100", StatusWarning},
		{"99.99", "100", StatusWarning},
		{"100", "100", StatusOverBudget},
		{"250", "100", StatusOverBudget},
		{"500", "0", StatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.spent+"_of_"+tt.allocated, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(dec(tt.spent), dec(tt.allocated)))
		})
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	rank := map[Status]int{StatusOnTrack: 0, StatusWarning: 1, StatusOverBudget: 2}
	allocated := dec("400")

	prev := StatusOnTrack
	for cents := int64(0); cents <= 60000; cents += 137 {
		s := Classify(decimal.New(cents, -2), allocated)
		assert.GreaterOrEqual(t, rank[s], rank[prev])
		prev = s
	}
}

func TestPercentage(t *testing.T) {
	assertDecimal(t, "50", Percentage(dec("500"), dec("1000")))
	assertDecimal(t, "0", Percentage(dec("500"), dec("0")))
	assertDecimal(t, "0", Percentage(dec("500"), dec("-10")))
}

func TestThresholdAlert(t *testing.T) {
	t.Run("defaults_match_classification", func(t *testing.T) {
		b := monthlyBudget("b1", "food", usd, "100", date(2024, 3, 1))
		assert.Equal(t, AlertNone, ThresholdAlert(&b, dec("79.99")))
		assert.Equal(t, AlertApproaching, ThresholdAlert(&b, dec("80")))
		assert.Equal(t, AlertExceeded, ThresholdAlert(&b, dec("100")))
	})

	t.Run("custom_threshold_is_independent_of_status", func(t *testing.T) {
		b := monthlyBudget("b1", "food", usd, "100", date(2024, 3, 1))
		b.AlertAt80Percent = dec("0.9")

		assert.Equal(t, StatusWarning, ClassifyPercentage(dec("85")))
		assert.Equal(t, AlertNone, ThresholdAlert(&b, dec("85")))
		assert.Equal(t, AlertApproaching, ThresholdAlert(&b, dec("90")))
	})

	t.Run("disabled_alerts", func(t *testing.T) {
		b := monthlyBudget("b1", "food", usd, "100", date(2024, 3, 1))
		b.AlertsEnabled = false
		assert.Equal(t, AlertNone, ThresholdAlert(&b, dec("150")))
	})

	t.Run("zero_thresholds_fall_back_to_defaults", func(t *testing.T) {
		b := monthlyBudget("b1", "food", usd, "100", date(2024, 3, 1))
		b.AlertAt80Percent = dec("0")
		b.AlertAt100Percent = dec("0")
		assert.Equal(t, AlertApproaching, ThresholdAlert(&b, dec("80")))
		assert.Equal(t, AlertExceeded, ThresholdAlert(&b, dec("100")))
	})
}

func TestTransitionAlert(t *testing.T) {
	tests := []struct {
		before, after Status
		want          AlertLevel
	}{
		{StatusOnTrack, StatusOnTrack, AlertNone},
		{StatusOnTrack, StatusWarning, AlertApproaching},
		{StatusOnTrack, StatusOverBudget, AlertExceeded},
		{StatusWarning, StatusWarning, AlertNone},
		{StatusWarning, StatusOverBudget, AlertExceeded},
		{StatusOverBudget, StatusOverBudget, AlertNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.before)+"_to_"+string(tt.after), func(t *testing.T) {
			assert.Equal(t, tt.want, TransitionAlert(tt.before, tt.after))
		})
	}
}
