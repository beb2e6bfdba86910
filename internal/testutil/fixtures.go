package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/budgeting"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCurrency creates an active currency with the given ISO code.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code string) *models.Currency {
	t.Helper()

	currency := &models.Currency{
		Code:     code,
		Name:     code + " test currency",
		Symbol:   code,
		IsActive: true,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestUser creates a user with a unique email and no home currency.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithHomeCurrency(t, db, "")
}

// CreateTestUserWithHomeCurrency creates a user whose home currency is currencyID.
// An empty currencyID leaves the home currency unset.
func CreateTestUserWithHomeCurrency(t *testing.T, db *gorm.DB, currencyID string) *models.User {
	t.Helper()

	user := &models.User{
		Email:     fmt.Sprintf("user%d@test.com", nextID()),
		FirstName: "Test",
		LastName:  "User",
	}
	if currencyID != "" {
		user.HomeCurrencyID = &currencyID
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction already expressed in the owner's home
// currency, so the converted amount equals the amount at rate 1.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID, currencyID string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	value := decimal.RequireFromString(amount)
	tx := &models.Transaction{
		UserID:              userID,
		CategoryID:          categoryID,
		Type:                txType,
		Amount:              value,
		CurrencyID:          currencyID,
		ConvertedAmount:     value,
		ConvertedCurrencyID: currencyID,
		ExchangeRate:        decimal.NewFromInt(1),
		ExchangeRateDate:    date,
		Date:                date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active monthly budget starting at start.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID, currencyID, amount string, start time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:            userID,
		CategoryID:        categoryID,
		CurrencyID:        currencyID,
		Amount:            decimal.RequireFromString(amount),
		Period:            models.BudgetPeriodMonthly,
		StartDate:         start,
		EndDate:           budgeting.EndDate(start, models.BudgetPeriodMonthly),
		Description:       fmt.Sprintf("Test Budget %d", nextID()),
		IsActive:          true,
		AlertAt80Percent:  budgeting.DefaultAlertAt80Percent,
		AlertAt100Percent: budgeting.DefaultAlertAt100Percent,
		AlertsEnabled:     true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExchangeRate creates an active rate converting from into to.
func CreateTestExchangeRate(t *testing.T, db *gorm.DB, fromCurrencyID, toCurrencyID, rate string, effective time.Time) *models.ExchangeRate {
	t.Helper()

	er := &models.ExchangeRate{
		FromCurrencyID: fromCurrencyID,
		ToCurrencyID:   toCurrencyID,
		Rate:           decimal.RequireFromString(rate),
		EffectiveDate:  effective,
		IsActive:       true,
	}
	if err := db.Create(er).Error; err != nil {
		t.Fatalf("failed to create test exchange rate: %v", err)
	}
	return er
}
