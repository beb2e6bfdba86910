package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a recorded income or expense. Amount is in CurrencyID; ConvertedAmount
// is the same value in the owner's home currency (ConvertedCurrencyID) at ExchangeRate.
type Transaction struct {
	Base
	UserID              string          `gorm:"type:uuid;not null;index:idx_transactions_user_category_date" json:"user_id"`
	CategoryID          string          `gorm:"type:uuid;not null;index:idx_transactions_user_category_date" json:"category_id"`
	Type                TransactionType `gorm:"not null" json:"type"`
	Amount              decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	CurrencyID          string          `gorm:"type:uuid;not null" json:"currency_id"`
	ConvertedAmount     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"converted_amount"`
	ConvertedCurrencyID string          `gorm:"type:uuid;not null" json:"converted_currency_id"`
	ExchangeRate        decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"exchange_rate"`
	ExchangeRateDate    time.Time       `gorm:"not null" json:"exchange_rate_date"`
	Date                time.Time       `gorm:"not null;index:idx_transactions_user_category_date" json:"date"`
	Description         string          `json:"description"`
	Notes               string          `json:"notes,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
}
