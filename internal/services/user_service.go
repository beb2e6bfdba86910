package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db         *gorm.DB
	currencies CurrencyServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, currencies CurrencyServicer) UserServicer {
	return &userService{db: db, currencies: currencies}
}

// EnsureUser returns the user identified by a verified token, creating it keyed on
// the token's user ID the first time it is seen.
func (s *userService) EnsureUser(ctx context.Context, userID, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if userID == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID and email are required")
	}

	user := models.User{Base: models.Base{ID: userID}}
	err := s.db.WithContext(ctx).
		Where("id = ?", userID).
		Attrs(models.User{Email: email}).
		FirstOrCreate(&user).Error
	if err == nil {
		return &user, nil
	}

	// A concurrent first request may have inserted the same ID.
	var existing models.User
	if lookupErr := s.db.WithContext(ctx).Where("id = ?", userID).First(&existing).Error; lookupErr == nil {
		return &existing, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return nil, apperrors.ErrEmailInUse
	}
	return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// GetUserByID retrieves a user by ID with the home currency loaded.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("HomeCurrency").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetHomeCurrency returns the user's home currency.
func (s *userService) GetHomeCurrency(ctx context.Context, userID string) (*models.Currency, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HomeCurrencyID == nil {
		return nil, apperrors.ErrHomeCurrencyNotSet
	}
	return s.currencies.GetCurrencyByID(ctx, *user.HomeCurrencyID)
}

// SetHomeCurrency changes the user's home currency. Converted amounts already stored on
// transactions keep the currency they were recorded in.
func (s *userService) SetHomeCurrency(ctx context.Context, userID, currencyID string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cur, err := s.currencies.RequireActive(ctx, currencyID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Omit(clause.Associations).Update("home_currency_id", cur.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.HomeCurrencyID = &cur.ID
	user.HomeCurrency = cur
	return user, nil
}

// homeCurrencyID returns the user's home currency ID, or "" when none is set.
func homeCurrencyID(ctx context.Context, db *gorm.DB, userID string) (string, error) {
	var user models.User
	if err := db.WithContext(ctx).Select("id", "home_currency_id").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.HomeCurrencyID == nil {
		return "", nil
	}
	return *user.HomeCurrencyID, nil
}
