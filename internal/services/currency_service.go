package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"gorm.io/gorm"

	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// CurrencyCache holds currencies by ID and by "code:" + ISO code.
type CurrencyCache struct {
	cache *ristretto.Cache[string, models.Currency]
	ttl   time.Duration
}

// NewCurrencyCache creates a cache holding at most size currencies for ttl each.
func NewCurrencyCache(size int64, ttl time.Duration) (*CurrencyCache, error) {
	if size < 1 {
		size = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, models.Currency]{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &CurrencyCache{cache: cache, ttl: ttl}, nil
}

func (c *CurrencyCache) get(key string) (*models.Currency, bool) {
	if c == nil {
		return nil, false
	}
	cur, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return &cur, true
}

func (c *CurrencyCache) put(cur *models.Currency) {
	if c == nil {
		return
	}
	c.cache.SetWithTTL(cur.ID, *cur, 1, c.ttl)
	c.cache.SetWithTTL(codeKey(cur.Code), *cur, 1, c.ttl)
	c.cache.Wait()
}

// Close releases the cache's background goroutines.
func (c *CurrencyCache) Close() {
	if c != nil {
		c.cache.Close()
	}
}

func codeKey(code string) string {
	return "code:" + code
}

// currencyService serves currency reference data, read through a cache.
type currencyService struct {
	db    *gorm.DB
	cache *CurrencyCache
}

// NewCurrencyService creates a new CurrencyServicer. A nil cache disables caching.
func NewCurrencyService(db *gorm.DB, cache *CurrencyCache) CurrencyServicer {
	return &currencyService{db: db, cache: cache}
}

// ListCurrencies returns currencies ordered by code.
func (s *currencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]models.Currency, error) {
	query := s.db.WithContext(ctx).Model(&models.Currency{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var currencies []models.Currency
	if err := query.Order("code ASC").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// GetCurrencyByID returns a currency by ID.
func (s *currencyService) GetCurrencyByID(ctx context.Context, currencyID string) (*models.Currency, error) {
	if cur, ok := s.cache.get(currencyID); ok {
		return cur, nil
	}
	return s.load(ctx, "id = ?", currencyID)
}

// GetCurrencyByCode returns a currency by its ISO code, case-insensitively.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*models.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if cur, ok := s.cache.get(codeKey(code)); ok {
		return cur, nil
	}
	return s.load(ctx, "code = ?", code)
}

// RequireActive returns the currency if it exists and is active.
func (s *currencyService) RequireActive(ctx context.Context, currencyID string) (*models.Currency, error) {
	cur, err := s.GetCurrencyByID(ctx, currencyID)
	if err != nil {
		return nil, err
	}
	if !cur.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrCurrencyInactive, "currency "+cur.Code+" is not active")
	}
	return cur, nil
}

func (s *currencyService) load(ctx context.Context, query string, arg string) (*models.Currency, error) {
	var cur models.Currency
	if err := s.db.WithContext(ctx).Where(query, arg).First(&cur).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.cache.put(&cur)
	return &cur, nil
}
