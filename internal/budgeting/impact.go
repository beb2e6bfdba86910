package budgeting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// Hypothetical is a transaction that has not been recorded.
type Hypothetical struct {
	CategoryID  string                 `json:"category_id"`
	CurrencyID  string                 `json:"currency_id"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description,omitempty"`
}

// AffectedBudget is the before/after projection for one budget.
type AffectedBudget struct {
	BudgetID          string              `json:"budget_id"`
	Description       string              `json:"description,omitempty"`
	CategoryID        string              `json:"category_id"`
	CategoryName      string              `json:"category_name,omitempty"`
	CurrencyID        string              `json:"currency_id"`
	CurrencyCode      string              `json:"currency_code,omitempty"`
	Period            models.BudgetPeriod `json:"period"`
	StartDate         time.Time           `json:"start_date"`
	EndDate           time.Time           `json:"end_date"`
	Budgeted          decimal.Decimal     `json:"budgeted"`
	TransactionAmount decimal.Decimal     `json:"transaction_amount"`
	CurrentSpent      decimal.Decimal     `json:"current_spent"`
	AfterSpent        decimal.Decimal     `json:"after_spent"`
	CurrentRemaining  decimal.Decimal     `json:"current_remaining"`
	AfterRemaining    decimal.Decimal     `json:"after_remaining"`
	CurrentPercentage decimal.Decimal     `json:"current_percentage"`
	AfterPercentage   decimal.Decimal     `json:"after_percentage"`
	StatusBefore      Status              `json:"status_before"`
	StatusAfter       Status              `json:"status_after"`
	WillTriggerAlert  bool                `json:"will_trigger_alert"`
	AlertLevel        AlertLevel          `json:"alert_level"`
	AlertMessage      string              `json:"alert_message,omitempty"`
}

// ImpactPreview lists every budget a hypothetical transaction would touch. Warnings
// holds one message per budget the transaction would push over its limit.
type ImpactPreview struct {
	AffectedBudgets []AffectedBudget `json:"affected_budgets"`
	Warnings        []string         `json:"warnings"`
}

// AffectingBudgets returns the active budgets for the hypothetical's category whose
// window contains its date.
func AffectingBudgets(h Hypothetical, budgets []models.Budget) []models.Budget {
	var out []models.Budget
	for _, b := range budgets {
		if !b.IsActive || b.CategoryID != h.CategoryID {
			continue
		}
		if !b.Contains(h.Date) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Preview projects h onto every affecting budget in budgets. Current spend for each
// budget is aggregated from the existing transactions inside its window; h is then
// converted into the budget currency and added. Nothing is persisted. Income never
// counts against a budget, so an income hypothetical affects nothing.
func Preview(ctx context.Context, h Hypothetical, budgets []models.Budget, existing []models.Transaction, conv Converter) (*ImpactPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	preview := &ImpactPreview{AffectedBudgets: []AffectedBudget{}, Warnings: []string{}}
	if h.Type == models.TransactionTypeIncome {
		return preview, nil
	}

	for _, b := range AffectingBudgets(h, budgets) {
		inWindow := TransactionsInWindow(existing, b.CategoryID, b.StartDate, b.EndDate)
		current, err := TotalSpent(ctx, inWindow, b.CurrencyID, conv)
		if err != nil {
			return nil, err
		}
		added, err := conv.Convert(ctx, h.Amount, h.CurrencyID, b.CurrencyID)
		if err != nil {
			return nil, err
		}

		affected := project(&b, current, added)
		if affected.AlertLevel == AlertExceeded {
			preview.Warnings = append(preview.Warnings, affected.AlertMessage)
		}
		preview.AffectedBudgets = append(preview.AffectedBudgets, affected)
	}
	return preview, nil
}

func project(b *models.Budget, current, added decimal.Decimal) AffectedBudget {
	after := current.Add(added)
	beforePct := Percentage(current, b.Amount)
	afterPct := Percentage(after, b.Amount)
	before := ClassifyPercentage(beforePct)
	afterStatus := ClassifyPercentage(afterPct)
	level := TransitionAlert(before, afterStatus)

	a := AffectedBudget{
		BudgetID:          b.ID,
		Description:       b.Description,
		CategoryID:        b.CategoryID,
		CurrencyID:        b.CurrencyID,
		Period:            b.Period,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		Budgeted:          RoundMoney(b.Amount),
		TransactionAmount: RoundMoney(added),
		CurrentSpent:      RoundMoney(current),
		AfterSpent:        RoundMoney(after),
		CurrentRemaining:  RoundMoney(b.Amount.Sub(current)),
		AfterRemaining:    RoundMoney(b.Amount.Sub(after)),
		CurrentPercentage: RoundMoney(beforePct),
		AfterPercentage:   RoundMoney(afterPct),
		StatusBefore:      before,
		StatusAfter:       afterStatus,
		WillTriggerAlert:  level != AlertNone,
		AlertLevel:        level,
	}
	if b.Category != nil {
		a.CategoryName = b.Category.Name
	}
	if b.Currency != nil {
		a.CurrencyCode = b.Currency.Code
	}

	switch level {
	case AlertExceeded:
		a.AlertMessage = fmt.Sprintf("This transaction will exceed your %s budget by %s%s",
			budgetLabel(b), amountLabel(a.CurrencyCode), RoundMoney(after.Sub(b.Amount)).StringFixed(MoneyPlaces))
	case AlertApproaching:
		a.AlertMessage = fmt.Sprintf("This transaction will bring your %s budget to %s%% of its limit",
			budgetLabel(b), a.AfterPercentage.StringFixed(MoneyPlaces))
	}
	return a
}

func budgetLabel(b *models.Budget) string {
	switch {
	case b.Category != nil && b.Category.Name != "":
		return b.Category.Name
	case b.Description != "":
		return b.Description
	default:
		return string(b.Period)
	}
}

func amountLabel(code string) string {
	if code == "" {
		return ""
	}
	return code + " "
}
