package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts one unit of FromCurrency into Rate units of ToCurrency.
// Pairs are ordered: a USD→EUR rate says nothing about EUR→USD.
type ExchangeRate struct {
	Base
	FromCurrencyID string          `gorm:"type:uuid;not null;index:idx_exchange_rates_pair" json:"from_currency_id"`
	ToCurrencyID   string          `gorm:"type:uuid;not null;index:idx_exchange_rates_pair" json:"to_currency_id"`
	Rate           decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"rate"`
	EffectiveDate  time.Time       `gorm:"not null" json:"effective_date"`
	IsActive       bool            `gorm:"not null" json:"is_active"`

	// Relationships
	FromCurrency *Currency `gorm:"foreignKey:FromCurrencyID" json:"from_currency,omitempty"`
	ToCurrency   *Currency `gorm:"foreignKey:ToCurrencyID" json:"to_currency,omitempty"`
}

// IsCurrentlyValid reports whether the rate is active and already in effect at now.
func (r *ExchangeRate) IsCurrentlyValid(now time.Time) bool {
	return r.IsActive && !r.EffectiveDate.After(now)
}
