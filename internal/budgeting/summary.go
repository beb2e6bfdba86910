package budgeting

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// BudgetSummary is the spending position of one budget.
type BudgetSummary struct {
	BudgetID       string              `json:"budget_id"`
	Description    string              `json:"description,omitempty"`
	CategoryID     string              `json:"category_id"`
	CategoryName   string              `json:"category_name,omitempty"`
	CurrencyID     string              `json:"currency_id"`
	CurrencyCode   string              `json:"currency_code,omitempty"`
	Period         models.BudgetPeriod `json:"period"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	IsActive       bool                `json:"is_active"`
	Budgeted       decimal.Decimal     `json:"budgeted"`
	Spent          decimal.Decimal     `json:"spent"`
	Remaining      decimal.Decimal     `json:"remaining"`
	Percentage     decimal.Decimal     `json:"percentage"`
	Status         Status              `json:"status"`
	AlertLevel     AlertLevel          `json:"alert_level"`
	DaysRemaining  int                 `json:"days_remaining"`
	DailyAllowance decimal.Decimal     `json:"daily_allowance"`
}

// Summarize builds the summary of b given what has been spent in its window.
func Summarize(b *models.Budget, spent decimal.Decimal, now time.Time) BudgetSummary {
	pct := Percentage(spent, b.Amount)
	remaining := b.Amount.Sub(spent)
	days := DaysRemaining(b, now)

	allowance := decimal.Zero
	if days > 0 && remaining.IsPositive() {
		allowance = remaining.Div(decimal.NewFromInt(int64(days)))
	}

	s := BudgetSummary{
		BudgetID:       b.ID,
		Description:    b.Description,
		CategoryID:     b.CategoryID,
		CurrencyID:     b.CurrencyID,
		Period:         b.Period,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		IsActive:       b.IsActive,
		Budgeted:       RoundMoney(b.Amount),
		Spent:          RoundMoney(spent),
		Remaining:      RoundMoney(remaining),
		Percentage:     RoundMoney(pct),
		Status:         ClassifyPercentage(pct),
		AlertLevel:     ThresholdAlert(b, pct),
		DaysRemaining:  days,
		DailyAllowance: RoundMoney(allowance),
	}
	if b.Category != nil {
		s.CategoryName = b.Category.Name
	}
	if b.Currency != nil {
		s.CurrencyCode = b.Currency.Code
	}
	return s
}

// DaysRemaining counts the started days left in b's window as seen at now. A window
// that has not opened yet reports its full length; a closed one reports zero.
func DaysRemaining(b *models.Budget, now time.Time) int {
	if now.After(b.EndDate) {
		return 0
	}
	from := now
	if now.Before(b.StartDate) {
		from = b.StartDate
	}
	return int(math.Ceil(b.EndDate.Sub(from).Hours() / 24))
}
