package budgeting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// TotalSpent sums the expense transactions in txs in budgetCurrencyID. Income is
// ignored. A transaction already in the budget currency contributes its Amount;
// any other contributes its ConvertedAmount, which is the authoritative home-currency
// value, converted into the budget currency.
func TotalSpent(ctx context.Context, txs []models.Transaction, budgetCurrencyID string, conv Converter) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		if tx.CurrencyID == budgetCurrencyID {
			total = total.Add(tx.Amount)
			continue
		}
		converted, err := conv.Convert(ctx, tx.ConvertedAmount, tx.ConvertedCurrencyID, budgetCurrencyID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

// TransactionsInWindow returns the transactions in categoryID dated within [start, end].
func TransactionsInWindow(txs []models.Transaction, categoryID string, start, end time.Time) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if tx.CategoryID != categoryID {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
