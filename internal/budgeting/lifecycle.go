package budgeting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// BudgetParams describes a budget to create. Nil alert fields take the defaults.
type BudgetParams struct {
	UserID            string
	CategoryID        string
	CurrencyID        string
	Amount            decimal.Decimal
	Period            models.BudgetPeriod
	StartDate         time.Time
	Description       string
	AllowOverlap      bool
	AlertAt80Percent  *decimal.Decimal
	AlertAt100Percent *decimal.Decimal
	AlertsEnabled     *bool
}

// BudgetUpdate holds the fields to change on an existing budget; nil means unchanged.
type BudgetUpdate struct {
	CategoryID        *string
	CurrencyID        *string
	Amount            *decimal.Decimal
	Period            *models.BudgetPeriod
	StartDate         *time.Time
	Description       *string
	IsActive          *bool
	AllowOverlap      *bool
	AlertAt80Percent  *decimal.Decimal
	AlertAt100Percent *decimal.Decimal
	AlertsEnabled     *bool
}

// NewBudget validates p and builds an active budget whose end date is derived from
// the start date and period.
func NewBudget(p BudgetParams, clk clock.Clock) (*models.Budget, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	if p.CategoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	if p.CurrencyID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency ID is required")
	}
	if err := validateAmount(p.Amount); err != nil {
		return nil, err
	}
	if !p.Period.Valid() {
		return nil, invalidPeriod(p.Period)
	}
	if p.StartDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}

	at80 := DefaultAlertAt80Percent
	if p.AlertAt80Percent != nil {
		at80 = *p.AlertAt80Percent
	}
	at100 := DefaultAlertAt100Percent
	if p.AlertAt100Percent != nil {
		at100 = *p.AlertAt100Percent
	}
	if err := validateThresholds(at80, at100); err != nil {
		return nil, err
	}
	alertsEnabled := true
	if p.AlertsEnabled != nil {
		alertsEnabled = *p.AlertsEnabled
	}

	// Windows are always derived in UTC so a reloaded budget yields the same end date.
	start := p.StartDate.UTC()
	now := clk.Now()
	b := &models.Budget{
		UserID:            p.UserID,
		CategoryID:        p.CategoryID,
		CurrencyID:        p.CurrencyID,
		Amount:            p.Amount,
		Period:            p.Period,
		StartDate:         start,
		EndDate:           EndDate(start, p.Period),
		Description:       strings.TrimSpace(p.Description),
		IsActive:          true,
		AllowOverlap:      p.AllowOverlap,
		AlertAt80Percent:  at80,
		AlertAt100Percent: at100,
		AlertsEnabled:     alertsEnabled,
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// ApplyUpdate validates u in full and only then applies it to b. The end date is
// re-derived when the start date or period changes.
func ApplyUpdate(b *models.Budget, u BudgetUpdate, clk clock.Clock) error {
	if u.CategoryID != nil && *u.CategoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID cannot be empty")
	}
	if u.CurrencyID != nil && *u.CurrencyID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "currency ID cannot be empty")
	}
	if u.Amount != nil {
		if err := validateAmount(*u.Amount); err != nil {
			return err
		}
	}
	if u.Period != nil && !u.Period.Valid() {
		return invalidPeriod(*u.Period)
	}
	if u.StartDate != nil && u.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start date cannot be empty")
	}
	at80, at100 := b.AlertAt80Percent, b.AlertAt100Percent
	if u.AlertAt80Percent != nil {
		at80 = *u.AlertAt80Percent
	}
	if u.AlertAt100Percent != nil {
		at100 = *u.AlertAt100Percent
	}
	if err := validateThresholds(at80, at100); err != nil {
		return err
	}

	if u.CategoryID != nil {
		b.CategoryID = *u.CategoryID
	}
	if u.CurrencyID != nil {
		b.CurrencyID = *u.CurrencyID
	}
	if u.Amount != nil {
		b.Amount = *u.Amount
	}
	reschedule := false
	if u.Period != nil && *u.Period != b.Period {
		b.Period = *u.Period
		reschedule = true
	}
	if u.StartDate != nil && !u.StartDate.Equal(b.StartDate) {
		b.StartDate = *u.StartDate
		reschedule = true
	}
	if reschedule {
		b.StartDate = b.StartDate.UTC()
		b.EndDate = EndDate(b.StartDate, b.Period)
	}
	if u.Description != nil {
		b.Description = strings.TrimSpace(*u.Description)
	}
	if u.IsActive != nil {
		b.IsActive = *u.IsActive
	}
	if u.AllowOverlap != nil {
		b.AllowOverlap = *u.AllowOverlap
	}
	b.AlertAt80Percent = at80
	b.AlertAt100Percent = at100
	if u.AlertsEnabled != nil {
		b.AlertsEnabled = *u.AlertsEnabled
	}
	b.UpdatedAt = clk.Now()
	return nil
}

// ApplyAmount changes only the allocated amount.
func ApplyAmount(b *models.Budget, amount decimal.Decimal, clk clock.Clock) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	b.Amount = amount
	b.UpdatedAt = clk.Now()
	return nil
}

// ApplyActive changes only the active flag.
func ApplyActive(b *models.Budget, active bool, clk clock.Clock) {
	b.IsActive = active
	b.UpdatedAt = clk.Now()
}

// Reschedules reports whether applying u to b would move its window.
func Reschedules(b *models.Budget, u BudgetUpdate) bool {
	return (u.Period != nil && *u.Period != b.Period) ||
		(u.StartDate != nil && !u.StartDate.Equal(b.StartDate))
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	return nil
}

func validateThresholds(at80, at100 decimal.Decimal) error {
	if !at80.IsPositive() || !at100.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "alert thresholds must be greater than zero")
	}
	if at80.GreaterThan(at100) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "approaching alert threshold cannot exceed the limit threshold")
	}
	return nil
}

func invalidPeriod(p models.BudgetPeriod) error {
	return apperrors.WithMessage(apperrors.ErrInvalidPeriod, "unsupported budget period: "+string(p))
}
