package models

// User is the owner of categories, budgets and transactions. Identity management lives
// elsewhere; this service only needs the user's home currency.
type User struct {
	Base
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HomeCurrencyID *string   `gorm:"type:uuid" json:"home_currency_id,omitempty"`
	HomeCurrency   *Currency `gorm:"foreignKey:HomeCurrencyID" json:"home_currency,omitempty"`
}
