package budgeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// RateSource looks up stored exchange rates.
type RateSource interface {
	// GetExchangeRate returns the most recent active rate for the ordered pair whose
	// effective date is not after asOf. It returns apperrors.ErrExchangeRateNotFound
	// when there is none.
	GetExchangeRate(ctx context.Context, fromCurrencyID, toCurrencyID string, asOf time.Time) (*models.ExchangeRate, error)
}

// Converter converts an amount between two currencies.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrencyID, toCurrencyID string) (decimal.Decimal, error)
}

// Quote is the rate a conversion used.
type Quote struct {
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effective_date"`
	ViaHome       bool            `json:"via_home"`
}

var one = decimal.NewFromInt(1)

// Resolver converts amounts using stored rates. Rates are kept against a reference
// currency rather than for every pair, so when a pair has no direct rate the Resolver
// chains through its home currency: from → home → to.
type Resolver struct {
	rates RateSource
	clock clock.Clock
	home  string
}

// NewResolver creates a Resolver without a home currency.
func NewResolver(rates RateSource, clk clock.Clock) *Resolver {
	return &Resolver{rates: rates, clock: clk}
}

// WithHome returns a copy of the resolver that chains through homeCurrencyID.
func (r *Resolver) WithHome(homeCurrencyID string) *Resolver {
	cp := *r
	cp.home = homeCurrencyID
	return &cp
}

// Home returns the currency used for chaining, or "" when none is set.
func (r *Resolver) Home() string { return r.home }

// Convert converts amount from one currency to another at full precision. Converting
// a currency to itself returns amount unchanged without consulting the rate source.
func (r *Resolver) Convert(ctx context.Context, amount decimal.Decimal, fromCurrencyID, toCurrencyID string) (decimal.Decimal, error) {
	if fromCurrencyID == toCurrencyID {
		return amount, nil
	}
	q, err := r.GetRate(ctx, fromCurrencyID, toCurrencyID)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(q.Rate), nil
}

// GetRate returns the rate to apply for the ordered pair: 1 for identical currencies,
// the direct rate when one is currently valid, or the product of the two legs through
// the home currency. It fails with ErrRateUnavailable when none of these exist.
func (r *Resolver) GetRate(ctx context.Context, fromCurrencyID, toCurrencyID string) (Quote, error) {
	now := r.clock.Now()
	if fromCurrencyID == toCurrencyID {
		return Quote{Rate: one, EffectiveDate: now}, nil
	}

	q, err := r.directRate(ctx, fromCurrencyID, toCurrencyID, now)
	if err == nil || !errors.Is(err, apperrors.ErrRateUnavailable) {
		return q, err
	}
	if r.home == "" || fromCurrencyID == r.home || toCurrencyID == r.home {
		return Quote{}, err
	}

	toHome, err := r.directRate(ctx, fromCurrencyID, r.home, now)
	if err != nil {
		return Quote{}, err
	}
	fromHome, err := r.directRate(ctx, r.home, toCurrencyID, now)
	if err != nil {
		return Quote{}, err
	}

	effective := toHome.EffectiveDate
	if fromHome.EffectiveDate.Before(effective) {
		effective = fromHome.EffectiveDate
	}
	return Quote{Rate: toHome.Rate.Mul(fromHome.Rate), EffectiveDate: effective, ViaHome: true}, nil
}

// RateExists reports whether GetRate would succeed for the pair.
func (r *Resolver) RateExists(ctx context.Context, fromCurrencyID, toCurrencyID string) bool {
	_, err := r.GetRate(ctx, fromCurrencyID, toCurrencyID)
	return err == nil
}

// ConvertViaHome always converts in two legs, from → home and home → to, using only
// direct rates for each leg. A leg whose currencies match is skipped.
func (r *Resolver) ConvertViaHome(ctx context.Context, amount decimal.Decimal, fromCurrencyID, toCurrencyID string) (decimal.Decimal, error) {
	if fromCurrencyID == toCurrencyID {
		return amount, nil
	}
	if r.home == "" {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrRateUnavailable, "no home currency to convert through")
	}

	now := r.clock.Now()
	inHome, err := r.leg(ctx, amount, fromCurrencyID, r.home, now)
	if err != nil {
		return decimal.Zero, err
	}
	return r.leg(ctx, inHome, r.home, toCurrencyID, now)
}

func (r *Resolver) leg(ctx context.Context, amount decimal.Decimal, from, to string, now time.Time) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	q, err := r.directRate(ctx, from, to, now)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(q.Rate), nil
}

func (r *Resolver) directRate(ctx context.Context, from, to string, now time.Time) (Quote, error) {
	rate, err := r.rates.GetExchangeRate(ctx, from, to, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrExchangeRateNotFound) {
			return Quote{}, rateUnavailable(from, to)
		}
		return Quote{}, err
	}
	if !rate.IsCurrentlyValid(now) || !rate.Rate.IsPositive() {
		return Quote{}, rateUnavailable(from, to)
	}
	return Quote{Rate: rate.Rate, EffectiveDate: rate.EffectiveDate}, nil
}

func rateUnavailable(from, to string) error {
	return apperrors.WithMessage(apperrors.ErrRateUnavailable,
		fmt.Sprintf("no currently valid exchange rate from %s to %s", from, to))
}
