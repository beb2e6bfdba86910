package budgeting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

func TestPreview(t *testing.T) {
	ctx := context.Background()
	start := date(2024, time.March, 1)
	on := date(2024, time.March, 10)

	budget := monthlyBudget("groceries", "food", usd, "1000", start)
	budget.Category = &models.Category{Name: "Groceries"}
	budget.Currency = &models.Currency{Code: "USD"}
	existing := []models.Transaction{expense("food", usd, "500", date(2024, time.March, 5))}
	conv := newTestResolver(newMemRates())

	hypothetical := func(amount string) Hypothetical {
		return Hypothetical{
			CategoryID: "food",
			CurrencyID: usd,
			Amount:     dec(amount),
			Type:       models.TransactionTypeExpense,
			Date:       on,
		}
	}

	t.Run("approaching_limit", func(t *testing.T) {
		preview, err := Preview(ctx, hypothetical("350"), []models.Budget{budget}, existing, conv)
		require.NoError(t, err)
		require.Len(t, preview.AffectedBudgets, 1)

		a := preview.AffectedBudgets[0]
		assertDecimal(t, "500", a.CurrentSpent)
		assertDecimal(t, "850", a.AfterSpent)
		assertDecimal(t, "50", a.CurrentPercentage)
		assertDecimal(t, "85", a.AfterPercentage)
		assertDecimal(t, "150", a.AfterRemaining)
		assert.Equal(t, StatusOnTrack, a.StatusBefore)
		assert.Equal(t, StatusWarning, a.StatusAfter)
		assert.True(t, a.WillTriggerAlert)
		assert.Equal(t, AlertApproaching, a.AlertLevel)
		assert.Empty(t, preview.Warnings)
	})

	t.Run("exceeds_limit", func(t *testing.T) {
		preview, err := Preview(ctx, hypothetical("600"), []models.Budget{budget}, existing, conv)
		require.NoError(t, err)
		require.Len(t, preview.AffectedBudgets, 1)

		a := preview.AffectedBudgets[0]
		assertDecimal(t, "1100", a.AfterSpent)
		assertDecimal(t, "110", a.AfterPercentage)
		assertDecimal(t, "-100", a.AfterRemaining)
		assert.Equal(t, StatusOverBudget, a.StatusAfter)
		assert.Equal(t, AlertExceeded, a.AlertLevel)
		assert.Contains(t, a.AlertMessage, "exceed")
		assert.Contains(t, a.AlertMessage, "Groceries")
		assert.Contains(t, a.AlertMessage, "USD 100.00")
		require.Len(t, preview.Warnings, 1)
		assert.Equal(t, a.AlertMessage, preview.Warnings[0])
	})

	t.Run("no_transition_no_alert", func(t *testing.T) {
		preview, err := Preview(ctx, hypothetical("10"), []models.Budget{budget}, existing, conv)
		require.NoError(t, err)
		a := preview.AffectedBudgets[0]
		assert.False(t, a.WillTriggerAlert)
		assert.Equal(t, AlertNone, a.AlertLevel)
		assert.Empty(t, a.AlertMessage)
	})

	t.Run("already_over_budget_stays_silent", func(t *testing.T) {
		over := []models.Transaction{expense("food", usd, "1200", date(2024, time.March, 5))}
		preview, err := Preview(ctx, hypothetical("50"), []models.Budget{budget}, over, conv)
		require.NoError(t, err)
		assert.False(t, preview.AffectedBudgets[0].WillTriggerAlert)
		assert.Empty(t, preview.Warnings)
	})

	t.Run("ignores_unrelated_budgets", func(t *testing.T) {
		otherCategory := monthlyBudget("rent", "rent", usd, "1000", start)
		lastMonth := monthlyBudget("feb", "food", usd, "1000", date(2024, time.February, 1))
		inactive := monthlyBudget("old", "food", usd, "1000", start)
		inactive.IsActive = false

		preview, err := Preview(ctx, hypothetical("350"), []models.Budget{otherCategory, lastMonth, inactive}, existing, conv)
		require.NoError(t, err)
		assert.Empty(t, preview.AffectedBudgets)
	})

	t.Run("only_counts_spend_inside_each_window", func(t *testing.T) {
		txs := append([]models.Transaction{expense("food", usd, "700", date(2024, time.February, 20))}, existing...)
		preview, err := Preview(ctx, hypothetical("350"), []models.Budget{budget}, txs, conv)
		require.NoError(t, err)
		assertDecimal(t, "500", preview.AffectedBudgets[0].CurrentSpent)
	})

	t.Run("income_affects_nothing", func(t *testing.T) {
		h := hypothetical("5000")
		h.Type = models.TransactionTypeIncome
		preview, err := Preview(ctx, h, []models.Budget{budget}, existing, conv)
		require.NoError(t, err)
		assert.Empty(t, preview.AffectedBudgets)
		assert.Empty(t, preview.Warnings)
	})

	t.Run("converts_into_budget_currency", func(t *testing.T) {
		rates := newMemRates()
		rates.add(eur, usd, "1.1", testNow.AddDate(0, 0, -1), true)

		h := hypothetical("100")
		h.CurrencyID = eur
		preview, err := Preview(ctx, h, []models.Budget{budget}, existing, newTestResolver(rates))
		require.NoError(t, err)
		a := preview.AffectedBudgets[0]
		assertDecimal(t, "110", a.TransactionAmount)
		assertDecimal(t, "610", a.AfterSpent)
	})

	t.Run("rounds_reported_figures", func(t *testing.T) {
		odd := monthlyBudget("odd", "food", usd, "300", start)
		preview, err := Preview(ctx, hypothetical("100"), []models.Budget{odd}, nil, conv)
		require.NoError(t, err)
		assertDecimal(t, "33.33", preview.AffectedBudgets[0].AfterPercentage)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Preview(cctx, hypothetical("350"), []models.Budget{budget}, existing, conv)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing_rate_fails", func(t *testing.T) {
		h := hypothetical("100")
		h.CurrencyID = gbp
		_, err := Preview(ctx, h, []models.Budget{budget}, existing, conv)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "exchange rate"))
	})
}

func TestAffectingBudgets(t *testing.T) {
	b := monthlyBudget("b", "food", usd, "100", date(2024, time.March, 1))
	h := Hypothetical{CategoryID: "food", Date: b.EndDate}
	assert.Len(t, AffectingBudgets(h, []models.Budget{b}), 1)

	h.Date = b.EndDate.Add(time.Second)
	assert.Empty(t, AffectingBudgets(h, []models.Budget{b}))
}
