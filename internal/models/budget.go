package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodDaily     BudgetPeriod = "daily"
	BudgetPeriodWeekly    BudgetPeriod = "weekly"
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
)

// Valid reports whether p is one of the supported periods.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodDaily, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodQuarterly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps spending in one category over a window that starts at StartDate and
// ends at EndDate (inclusive). EndDate is derived from StartDate and Period.
type Budget struct {
	Base
	UserID            string          `gorm:"type:uuid;not null;index:idx_budgets_user_category" json:"user_id"`
	CategoryID        string          `gorm:"type:uuid;not null;index:idx_budgets_user_category" json:"category_id"`
	CurrencyID        string          `gorm:"type:uuid;not null" json:"currency_id"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Period            BudgetPeriod    `gorm:"not null" json:"period"`
	StartDate         time.Time       `gorm:"not null" json:"start_date"`
	EndDate           time.Time       `gorm:"not null" json:"end_date"`
	Description       string          `json:"description,omitempty"`
	IsActive          bool            `gorm:"not null" json:"is_active"`
	AllowOverlap      bool            `gorm:"not null" json:"allow_overlap"`
	AlertAt80Percent  decimal.Decimal `gorm:"column:alert_at_80_percent;type:numeric(5,4);not null" json:"alert_at_80_percent"`
	AlertAt100Percent decimal.Decimal `gorm:"column:alert_at_100_percent;type:numeric(5,4);not null" json:"alert_at_100_percent"`
	AlertsEnabled     bool            `gorm:"not null" json:"alerts_enabled"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
}

// Contains reports whether t falls inside the budget window.
func (b *Budget) Contains(t time.Time) bool {
	return !t.Before(b.StartDate) && !t.After(b.EndDate)
}
