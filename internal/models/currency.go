package models

// Currency is reference data: an ISO 4217 currency the system can hold amounts in.
type Currency struct {
	Base
	Code     string `gorm:"size:3;uniqueIndex;not null" json:"code"`
	Name     string `gorm:"not null" json:"name"`
	Symbol   string `gorm:"size:8" json:"symbol"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}
