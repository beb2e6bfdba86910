package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/budgeting"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db         *gorm.DB
	clock      clock.Clock
	currencies CurrencyServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, clk clock.Clock, currencies CurrencyServicer) TransactionServicer {
	return &transactionService{db: db, clock: clk, currencies: currencies}
}

// CreateTransaction records a transaction and stores its value in the user's home currency.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if in.Date.IsZero() {
		in.Date = s.clock.Now()
	}

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Amount:      in.Amount,
		CurrencyID:  in.CurrencyID,
		Date:        in.Date.UTC(),
		Description: strings.TrimSpace(in.Description),
		Notes:       in.Notes,
	}
	if err := s.resolve(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetTransactionByID(ctx, userID, tx.ID)
}

// UpdateTransaction applies the changes in in and re-derives the home-currency values.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, in TransactionUpdate) (*models.Transaction, error) {
	tx, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
		tx.Type = *in.Type
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		tx.Amount = *in.Amount
	}
	if in.CategoryID != nil {
		tx.CategoryID = *in.CategoryID
	}
	if in.CurrencyID != nil {
		tx.CurrencyID = *in.CurrencyID
	}
	if in.Date != nil && !in.Date.IsZero() {
		tx.Date = in.Date.UTC()
	}
	if in.Description != nil {
		tx.Description = strings.TrimSpace(*in.Description)
	}
	if in.Notes != nil {
		tx.Notes = *in.Notes
	}
	if err := s.resolve(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetTransactionByID(ctx, userID, tx.ID)
}

// resolve checks the transaction's references and fills in its converted amount,
// converted currency and rate.
func (s *transactionService) resolve(ctx context.Context, tx *models.Transaction) error {
	category, err := findCategory(ctx, s.db, tx.UserID, tx.CategoryID)
	if err != nil {
		return err
	}
	if string(category.Type) != string(tx.Type) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category type does not match transaction type")
	}
	if _, err := s.currencies.RequireActive(ctx, tx.CurrencyID); err != nil {
		return err
	}

	resolver, err := newUserResolver(ctx, s.db, s.clock, tx.UserID)
	if err != nil {
		return err
	}
	home := resolver.Home()
	if home == "" {
		return apperrors.ErrHomeCurrencyNotSet
	}

	quote, err := resolver.GetRate(ctx, tx.CurrencyID, home)
	if err != nil {
		return err
	}
	tx.ConvertedCurrencyID = home
	tx.ExchangeRate = quote.Rate
	tx.ExchangeRateDate = quote.EffectiveDate
	if tx.CurrencyID == home {
		tx.ConvertedAmount = tx.Amount
	} else {
		tx.ConvertedAmount = budgeting.RoundMoney(tx.Amount.Mul(quote.Rate))
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions for a user.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Preload("Currency").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CurrencyID != nil {
		q = q.Where("currency_id = ?", *f.CurrencyID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).Preload("Category").Preload("Currency").
		Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// expensesInWindow loads the user's expense transactions in categoryID dated within
// [start, end].
func expensesInWindow(ctx context.Context, db *gorm.DB, userID, categoryID string, start, end time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, categoryID, models.TransactionTypeExpense, start, end).
		Order("date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

