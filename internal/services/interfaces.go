package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/budgeting"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	// EnsureUser returns the user for a verified token, creating the row on first sight.
	EnsureUser(ctx context.Context, userID, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetHomeCurrency(ctx context.Context, userID string) (*models.Currency, error)
	SetHomeCurrency(ctx context.Context, userID, currencyID string) (*models.User, error)
}

// CurrencyServicer defines the contract for currency reference data.
type CurrencyServicer interface {
	ListCurrencies(ctx context.Context, activeOnly bool) ([]models.Currency, error)
	GetCurrencyByID(ctx context.Context, currencyID string) (*models.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*models.Currency, error)
	// RequireActive returns the currency only if it exists and is active.
	RequireActive(ctx context.Context, currencyID string) (*models.Currency, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error)
	GetUserCategories(ctx context.Context, userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
}

// ExchangeRateFilter holds optional filter parameters for listing exchange rates.
type ExchangeRateFilter struct {
	FromCurrencyID *string
	ToCurrencyID   *string
	ActiveOnly     bool
}

// ExchangeRateServicer defines the contract for exchange rate management and lookup.
type ExchangeRateServicer interface {
	CreateExchangeRate(ctx context.Context, fromCurrencyID, toCurrencyID string, rate decimal.Decimal, effectiveDate time.Time) (*models.ExchangeRate, error)
	GetExchangeRates(ctx context.Context, page pagination.PageRequest, filter ExchangeRateFilter) (*pagination.PageResponse[models.ExchangeRate], error)
	GetExchangeRateByID(ctx context.Context, rateID string) (*models.ExchangeRate, error)
	DeactivateExchangeRate(ctx context.Context, rateID string) (*models.ExchangeRate, error)
	// GetRate resolves the rate for the pair as seen by userID, chaining through the
	// user's home currency when there is no direct rate.
	GetRate(ctx context.Context, userID, fromCurrencyID, toCurrencyID string) (*budgeting.Quote, error)
	RateExists(ctx context.Context, userID, fromCurrencyID, toCurrencyID string) (bool, error)
}

// TransactionInput describes a transaction to record.
type TransactionInput struct {
	CategoryID  string
	CurrencyID  string
	Type        models.TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Notes       string
}

// TransactionUpdate holds the transaction fields to change; nil means unchanged.
type TransactionUpdate struct {
	CategoryID  *string
	CurrencyID  *string
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
	Notes       *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	CurrencyID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, in TransactionUpdate) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	IsActive   *bool
	Period     *models.BudgetPeriod
	CategoryID *string
}

// ActiveBudgetFilter narrows the budgets considered active. A nil Date means now.
type ActiveBudgetFilter struct {
	CategoryID *string
	Date       *time.Time
}

// ActiveBudgetsSummary is the summary of every budget active on a date. The totals are
// in the user's home currency and are omitted when none is set.
type ActiveBudgetsSummary struct {
	Date           time.Time                 `json:"date"`
	Budgets        []budgeting.BudgetSummary `json:"budgets"`
	HomeCurrencyID *string                   `json:"home_currency_id,omitempty"`
	TotalBudgeted  *decimal.Decimal          `json:"total_budgeted,omitempty"`
	TotalSpent     *decimal.Decimal          `json:"total_spent,omitempty"`
	TotalRemaining *decimal.Decimal          `json:"total_remaining,omitempty"`
	OverBudget     int                       `json:"over_budget_count"`
	Warning        int                       `json:"warning_count"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID string, params budgeting.BudgetParams) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, update budgeting.BudgetUpdate) (*models.Budget, error)
	UpdateBudgetAmount(ctx context.Context, userID, budgetID string, amount decimal.Decimal) (*models.Budget, error)
	SetBudgetActive(ctx context.Context, userID, budgetID string, active bool) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	GetBudgetSummary(ctx context.Context, userID, budgetID string) (*budgeting.BudgetSummary, error)
	GetActiveBudgetSummaries(ctx context.Context, userID string, filter ActiveBudgetFilter) (*ActiveBudgetsSummary, error)
	PreviewImpact(ctx context.Context, userID string, h budgeting.Hypothetical) (*budgeting.ImpactPreview, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
