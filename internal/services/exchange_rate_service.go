package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/budgeting"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
)

// rateStore reads exchange rates from the database for the resolver.
type rateStore struct {
	db *gorm.DB
}

// GetExchangeRate returns the latest active rate for the pair in effect at asOf.
func (s rateStore) GetExchangeRate(ctx context.Context, fromCurrencyID, toCurrencyID string, asOf time.Time) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := s.db.WithContext(ctx).
		Where("from_currency_id = ? AND to_currency_id = ? AND is_active = ? AND effective_date <= ?",
			fromCurrencyID, toCurrencyID, true, asOf).
		Order("effective_date DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExchangeRateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rate, nil
}

// newUserResolver builds a resolver that chains through userID's home currency, if any.
func newUserResolver(ctx context.Context, db *gorm.DB, clk clock.Clock, userID string) (*budgeting.Resolver, error) {
	home, err := homeCurrencyID(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	return budgeting.NewResolver(rateStore{db: db}, clk).WithHome(home), nil
}

// exchangeRateService handles exchange rate management and lookups.
type exchangeRateService struct {
	db         *gorm.DB
	clock      clock.Clock
	currencies CurrencyServicer
}

// NewExchangeRateService creates a new ExchangeRateServicer.
func NewExchangeRateService(db *gorm.DB, clk clock.Clock, currencies CurrencyServicer) ExchangeRateServicer {
	return &exchangeRateService{db: db, clock: clk, currencies: currencies}
}

// CreateExchangeRate records a rate for an ordered currency pair.
func (s *exchangeRateService) CreateExchangeRate(
	ctx context.Context,
	fromCurrencyID, toCurrencyID string,
	rate decimal.Decimal,
	effectiveDate time.Time,
) (*models.ExchangeRate, error) {
	if fromCurrencyID == toCurrencyID {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from and to currencies must differ")
	}
	if !rate.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rate must be greater than zero")
	}
	if _, err := s.currencies.RequireActive(ctx, fromCurrencyID); err != nil {
		return nil, err
	}
	if _, err := s.currencies.RequireActive(ctx, toCurrencyID); err != nil {
		return nil, err
	}
	if effectiveDate.IsZero() {
		effectiveDate = s.clock.Now()
	}

	er := &models.ExchangeRate{
		FromCurrencyID: fromCurrencyID,
		ToCurrencyID:   toCurrencyID,
		Rate:           rate,
		EffectiveDate:  effectiveDate.UTC(),
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(er).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return er, nil
}

// GetExchangeRates returns a paginated list of rates, newest first.
func (s *exchangeRateService) GetExchangeRates(
	ctx context.Context,
	page pagination.PageRequest,
	filter ExchangeRateFilter,
) (*pagination.PageResponse[models.ExchangeRate], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.ExchangeRate{})
	if filter.FromCurrencyID != nil {
		base = base.Where("from_currency_id = ?", *filter.FromCurrencyID)
	}
	if filter.ToCurrencyID != nil {
		base = base.Where("to_currency_id = ?", *filter.ToCurrencyID)
	}
	if filter.ActiveOnly {
		base = base.Where("is_active = ?", true)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rates []models.ExchangeRate
	if err := base.Preload("FromCurrency").Preload("ToCurrency").
		Order("effective_date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&rates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rates, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExchangeRateByID returns a single rate.
func (s *exchangeRateService) GetExchangeRateByID(ctx context.Context, rateID string) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	if err := s.db.WithContext(ctx).Preload("FromCurrency").Preload("ToCurrency").
		Where("id = ?", rateID).First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExchangeRateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rate, nil
}

// DeactivateExchangeRate marks a rate inactive. Rates are kept for the transactions
// that were converted with them.
func (s *exchangeRateService) DeactivateExchangeRate(ctx context.Context, rateID string) (*models.ExchangeRate, error) {
	rate, err := s.GetExchangeRateByID(ctx, rateID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(rate).Omit(clause.Associations).Update("is_active", false).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rate.IsActive = false
	return rate, nil
}

// GetRate resolves the rate for the pair as seen by the user.
func (s *exchangeRateService) GetRate(ctx context.Context, userID, fromCurrencyID, toCurrencyID string) (*budgeting.Quote, error) {
	if _, err := s.currencies.GetCurrencyByID(ctx, fromCurrencyID); err != nil {
		return nil, err
	}
	if _, err := s.currencies.GetCurrencyByID(ctx, toCurrencyID); err != nil {
		return nil, err
	}
	resolver, err := newUserResolver(ctx, s.db, s.clock, userID)
	if err != nil {
		return nil, err
	}
	q, err := resolver.GetRate(ctx, fromCurrencyID, toCurrencyID)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// RateExists reports whether a rate for the pair can be resolved for the user.
func (s *exchangeRateService) RateExists(ctx context.Context, userID, fromCurrencyID, toCurrencyID string) (bool, error) {
	_, err := s.GetRate(ctx, userID, fromCurrencyID, toCurrencyID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrRateUnavailable) {
		return false, nil
	}
	return false, err
}
