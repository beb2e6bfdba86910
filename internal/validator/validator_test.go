package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate()

	cases := []struct {
		tag   string
		value string
		valid bool
	}{
		{"iso4217", "USD", true},
		{"iso4217", "EUR", true},
		{"iso4217", "usd", false},
		{"iso4217", "ABC", false},
		{"iso4217", "US", false},
		{"hex_color", "#fff", true},
		{"hex_color", "#A1B2C3", true},
		{"hex_color", "red", false},
		{"transaction_type", "expense", true},
		{"transaction_type", "income", true},
		{"transaction_type", "transfer", false},
		{"category_type", "income", true},
		{"category_type", "savings", false},
		{"budget_period", "daily", true},
		{"budget_period", "weekly", true},
		{"budget_period", "monthly", true},
		{"budget_period", "quarterly", true},
		{"budget_period", "yearly", true},
		{"budget_period", "biweekly", false},
		{"budget_period", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.tag+"/"+tc.value, func(t *testing.T) {
			err := v.Var(tc.value, tc.tag)
			if tc.valid && err != nil {
				t.Errorf("expected %q to pass %s, got %v", tc.value, tc.tag, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("expected %q to fail %s", tc.value, tc.tag)
			}
		})
	}
}
