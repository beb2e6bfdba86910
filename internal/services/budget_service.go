package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/budgeting"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/logger"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db                 *gorm.DB
	clock              clock.Clock
	currencies         CurrencyServicer
	locks              *keyedMutex
	summaryConcurrency int
}

// NewBudgetService creates a new BudgetServicer. summaryConcurrency bounds how many
// budgets are summarised at once.
func NewBudgetService(db *gorm.DB, clk clock.Clock, currencies CurrencyServicer, summaryConcurrency int) BudgetServicer {
	if summaryConcurrency < 1 {
		summaryConcurrency = 1
	}
	return &budgetService{
		db:                 db,
		clock:              clk,
		currencies:         currencies,
		locks:              newKeyedMutex(),
		summaryConcurrency: summaryConcurrency,
	}
}

// CreateBudget creates a new budget for an expense category.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, params budgeting.BudgetParams) (*models.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params.UserID = userID
	budget, err := budgeting.NewBudget(params, s.clock)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, budget); err != nil {
		return nil, err
	}

	if err := s.saveExclusive(ctx, budget, true); err != nil {
		return nil, err
	}

	logger.Get().Debugw("budget created", "budget_id", budget.ID, "user_id", userID, "category_id", budget.CategoryID)
	return s.GetBudgetByID(ctx, userID, budget.ID)
}

// GetUserBudgets returns a paginated list of budgets for the user with optional filters.
func (s *budgetService) GetUserBudgets(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	filter BudgetFilter,
) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Period != nil {
		base = base.Where("period = ?", *filter.Period)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Preload("Currency").
		Order("start_date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).Preload("Category").Preload("Currency").
		Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies update to an existing budget. The window is re-derived when the
// start date or period changes, and the overlap rule is re-checked.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, update budgeting.BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	categoryChanged := update.CategoryID != nil && *update.CategoryID != budget.CategoryID
	currencyChanged := update.CurrencyID != nil && *update.CurrencyID != budget.CurrencyID
	if err := budgeting.ApplyUpdate(budget, update, s.clock); err != nil {
		return nil, err
	}
	if categoryChanged || currencyChanged {
		if err := s.checkReferences(ctx, budget); err != nil {
			return nil, err
		}
	}

	if err := s.saveExclusive(ctx, budget, false); err != nil {
		return nil, err
	}
	return s.GetBudgetByID(ctx, userID, budget.ID)
}

// UpdateBudgetAmount changes only the allocated amount.
func (s *budgetService) UpdateBudgetAmount(ctx context.Context, userID, budgetID string, amount decimal.Decimal) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if err := budgeting.ApplyAmount(budget, amount, s.clock); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(budget).Omit(clause.Associations).
		Updates(map[string]interface{}{"amount": budget.Amount, "updated_at": budget.UpdatedAt}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// SetBudgetActive activates or deactivates a budget. Reactivation is subject to the
// overlap rule.
func (s *budgetService) SetBudgetActive(ctx context.Context, userID, budgetID string, active bool) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.IsActive == active {
		return budget, nil
	}
	budgeting.ApplyActive(budget, active, s.clock)

	if !active {
		err := s.db.WithContext(ctx).Model(budget).Omit(clause.Associations).
			Updates(map[string]interface{}{"is_active": false, "updated_at": budget.UpdatedAt}).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return budget, nil
	}

	if err := s.saveExclusive(ctx, budget, false); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetSummary calculates spending against a single budget over its window.
func (s *budgetService) GetBudgetSummary(ctx context.Context, userID, budgetID string) (*budgeting.BudgetSummary, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	resolver, err := newUserResolver(ctx, s.db, s.clock, userID)
	if err != nil {
		return nil, err
	}

	summary, _, err := s.summarize(ctx, budget, resolver)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetActiveBudgetSummaries summarises every budget active on the filter date.
func (s *budgetService) GetActiveBudgetSummaries(ctx context.Context, userID string, filter ActiveBudgetFilter) (*ActiveBudgetsSummary, error) {
	on := s.clock.Now()
	if filter.Date != nil {
		on = filter.Date.UTC()
	}

	budgets, err := s.activeBudgets(ctx, s.db, userID, filter.CategoryID, &on)
	if err != nil {
		return nil, err
	}
	resolver, err := newUserResolver(ctx, s.db, s.clock, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]budgeting.BudgetSummary, len(budgets))
	spentTotals := make([]decimal.Decimal, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.summaryConcurrency)
	for i := range budgets {
		i := i
		g.Go(func() error {
			summary, spent, err := s.summarize(gctx, &budgets[i], resolver)
			if err != nil {
				return err
			}
			summaries[i] = summary
			spentTotals[i] = spent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ActiveBudgetsSummary{Date: on, Budgets: summaries}
	for _, summary := range summaries {
		switch summary.Status {
		case budgeting.StatusOverBudget:
			result.OverBudget++
		case budgeting.StatusWarning:
			result.Warning++
		}
	}

	home := resolver.Home()
	if home == "" {
		return result, nil
	}
	totalBudgeted, totalSpent := decimal.Zero, decimal.Zero
	for i := range budgets {
		budgeted, err := resolver.Convert(ctx, budgets[i].Amount, budgets[i].CurrencyID, home)
		if err != nil {
			return nil, err
		}
		spent, err := resolver.Convert(ctx, spentTotals[i], budgets[i].CurrencyID, home)
		if err != nil {
			return nil, err
		}
		totalBudgeted = totalBudgeted.Add(budgeted)
		totalSpent = totalSpent.Add(spent)
	}
	totalBudgeted = budgeting.RoundMoney(totalBudgeted)
	totalSpent = budgeting.RoundMoney(totalSpent)
	totalRemaining := totalBudgeted.Sub(totalSpent)
	result.HomeCurrencyID = &home
	result.TotalBudgeted = &totalBudgeted
	result.TotalSpent = &totalSpent
	result.TotalRemaining = &totalRemaining
	return result, nil
}

// PreviewImpact projects a hypothetical transaction onto every budget it would touch.
// Nothing is written.
func (s *budgetService) PreviewImpact(ctx context.Context, userID string, h budgeting.Hypothetical) (*budgeting.ImpactPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !h.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !h.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if h.Date.IsZero() {
		h.Date = s.clock.Now()
	}
	h.Date = h.Date.UTC()

	if _, err := findCategory(ctx, s.db, userID, h.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.currencies.GetCurrencyByID(ctx, h.CurrencyID); err != nil {
		return nil, err
	}

	budgets, err := s.activeBudgets(ctx, s.db, userID, &h.CategoryID, &h.Date)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return &budgeting.ImpactPreview{AffectedBudgets: []budgeting.AffectedBudget{}, Warnings: []string{}}, nil
	}

	start, end := budgets[0].StartDate, budgets[0].EndDate
	for _, b := range budgets[1:] {
		if b.StartDate.Before(start) {
			start = b.StartDate
		}
		if b.EndDate.After(end) {
			end = b.EndDate
		}
	}
	existing, err := expensesInWindow(ctx, s.db, userID, h.CategoryID, start, end)
	if err != nil {
		return nil, err
	}

	resolver, err := newUserResolver(ctx, s.db, s.clock, userID)
	if err != nil {
		return nil, err
	}
	return budgeting.Preview(ctx, h, budgets, existing, resolver)
}

// summarize returns the rounded summary together with the unrounded amount spent.
func (s *budgetService) summarize(ctx context.Context, budget *models.Budget, conv budgeting.Converter) (budgeting.BudgetSummary, decimal.Decimal, error) {
	txs, err := expensesInWindow(ctx, s.db, budget.UserID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return budgeting.BudgetSummary{}, decimal.Zero, err
	}
	spent, err := budgeting.TotalSpent(ctx, txs, budget.CurrencyID, conv)
	if err != nil {
		return budgeting.BudgetSummary{}, decimal.Zero, err
	}
	return budgeting.Summarize(budget, spent, s.clock.Now()), spent, nil
}

// activeBudgets loads the user's active budgets, optionally narrowed to a category and
// to those whose window contains on.
func (s *budgetService) activeBudgets(ctx context.Context, db *gorm.DB, userID string, categoryID *string, on *time.Time) ([]models.Budget, error) {
	q := db.WithContext(ctx).Preload("Category").Preload("Currency").
		Where("user_id = ? AND is_active = ?", userID, true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if on != nil {
		q = q.Where("start_date <= ? AND end_date >= ?", *on, *on)
	}

	var budgets []models.Budget
	if err := q.Order("start_date ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// checkReferences verifies the budget's category belongs to its owner and tracks
// expenses, and that its currency is active.
func (s *budgetService) checkReferences(ctx context.Context, budget *models.Budget) error {
	category, err := findCategory(ctx, s.db, budget.UserID, budget.CategoryID)
	if err != nil {
		return err
	}
	if category.Type != models.CategoryTypeExpense {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "budgets can only be set on expense categories")
	}
	if _, err := s.currencies.RequireActive(ctx, budget.CurrencyID); err != nil {
		return err
	}
	return nil
}

// saveExclusive writes budget after checking it against the owner's other active
// budgets in the same category. The check and the write share a per-(user, category)
// lock and a database transaction.
func (s *budgetService) saveExclusive(ctx context.Context, budget *models.Budget, create bool) error {
	unlock := s.locks.Lock(budgetLockKey(budget.UserID, budget.CategoryID))
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if budget.IsActive && !budget.AllowOverlap {
			existing, err := s.activeBudgets(ctx, tx, budget.UserID, &budget.CategoryID, nil)
			if err != nil {
				return err
			}
			if conflict := budgeting.ConflictingBudget(budget, existing); conflict != nil {
				return apperrors.WithMessage(apperrors.ErrBudgetOverlap, fmt.Sprintf(
					"an active budget (%s) already covers %s to %s for this category",
					conflict.ID, conflict.StartDate.Format(time.DateOnly), conflict.EndDate.Format(time.DateOnly)))
			}
		}

		write := tx.Omit(clause.Associations)
		var err error
		if create {
			err = write.Create(budget).Error
		} else {
			err = write.Save(budget).Error
		}
		if err != nil {
			if isOverlapViolation(err) {
				return apperrors.ErrBudgetOverlap
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
