package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/testutil"
)

var (
	fixedNow   = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	marchStart = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// testEnv is a migrated database with a user whose home currency is USD.
type testEnv struct {
	db         *gorm.DB
	clock      clock.Fixed
	currencies CurrencyServicer
	usd        *models.Currency
	eur        *models.Currency
	user       *models.User
	food       *models.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	usd := testutil.CreateTestCurrency(t, db, "USD")
	eur := testutil.CreateTestCurrency(t, db, "EUR")
	user := testutil.CreateTestUserWithHomeCurrency(t, db, usd.ID)

	return &testEnv{
		db:         db,
		clock:      clock.Fixed{At: fixedNow},
		currencies: NewCurrencyService(db, nil),
		usd:        usd,
		eur:        eur,
		user:       user,
		food:       testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense),
	}
}

func (e *testEnv) budgets() BudgetServicer {
	return NewBudgetService(e.db, e.clock, e.currencies, 1)
}

func (e *testEnv) transactions() TransactionServicer {
	return NewTransactionService(e.db, e.clock, e.currencies)
}

func (e *testEnv) rates() ExchangeRateServicer {
	return NewExchangeRateService(e.db, e.clock, e.currencies)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, field, want string, got decimal.Decimal) {
	t.Helper()
	if !dec(want).Equal(got) {
		t.Errorf("expected %s %s, got %s", field, want, got)
	}
}
