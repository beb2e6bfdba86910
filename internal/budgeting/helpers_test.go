package budgeting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

const (
	usd = "cur-usd"
	eur = "cur-eur"
	gbp = "cur-gbp"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type rateKey struct{ from, to string }

// memRates is an in-memory RateSource that counts lookups.
type memRates struct {
	rates   map[rateKey]*models.ExchangeRate
	lookups int
}

func newMemRates() *memRates {
	return &memRates{rates: map[rateKey]*models.ExchangeRate{}}
}

func (m *memRates) add(from, to, rate string, effective time.Time, active bool) {
	m.rates[rateKey{from, to}] = &models.ExchangeRate{
		FromCurrencyID: from,
		ToCurrencyID:   to,
		Rate:           decimal.RequireFromString(rate),
		EffectiveDate:  effective,
		IsActive:       active,
	}
}

func (m *memRates) GetExchangeRate(_ context.Context, from, to string, _ time.Time) (*models.ExchangeRate, error) {
	m.lookups++
	r, ok := m.rates[rateKey{from, to}]
	if !ok {
		return nil, apperrors.ErrExchangeRateNotFound
	}
	return r, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyBudget(id, category, currency, amount string, start time.Time) models.Budget {
	b := models.Budget{
		UserID:            "user-1",
		CategoryID:        category,
		CurrencyID:        currency,
		Amount:            dec(amount),
		Period:            models.BudgetPeriodMonthly,
		StartDate:         start,
		EndDate:           EndDate(start, models.BudgetPeriodMonthly),
		IsActive:          true,
		AlertAt80Percent:  DefaultAlertAt80Percent,
		AlertAt100Percent: DefaultAlertAt100Percent,
		AlertsEnabled:     true,
	}
	b.ID = id
	return b
}

func expense(category, currency, amount string, on time.Time) models.Transaction {
	return models.Transaction{
		CategoryID:          category,
		Type:                models.TransactionTypeExpense,
		Amount:              dec(amount),
		CurrencyID:          currency,
		ConvertedAmount:     dec(amount),
		ConvertedCurrencyID: currency,
		ExchangeRate:        decimal.NewFromInt(1),
		Date:                on,
	}
}
