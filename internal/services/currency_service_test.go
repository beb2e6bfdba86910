package services

import (
	"context"
	"testing"
	"time"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/testutil"
)

func TestCurrencyService(t *testing.T) {
	ctx := context.Background()

	t.Run("list_active", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.AssertNoError(t, env.db.Create(&models.Currency{Code: "DEM", Name: "Deutsche Mark"}).Error)

		all, err := env.currencies.ListCurrencies(ctx, false)
		testutil.AssertNoError(t, err)
		active, err := env.currencies.ListCurrencies(ctx, true)
		testutil.AssertNoError(t, err)

		if len(all) != 3 || len(active) != 2 {
			t.Errorf("expected 3 currencies with 2 active, got %d and %d", len(all), len(active))
		}
		if all[0].Code != "DEM" {
			t.Errorf("expected currencies ordered by code, got %s first", all[0].Code)
		}
	})

	t.Run("by_code_is_case_insensitive", func(t *testing.T) {
		env := newTestEnv(t)

		cur, err := env.currencies.GetCurrencyByCode(ctx, " eur ")
		testutil.AssertNoError(t, err)
		if cur.ID != env.eur.ID {
			t.Errorf("expected EUR, got %s", cur.Code)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.currencies.GetCurrencyByID(ctx, "018f0000-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})

	t.Run("require_active", func(t *testing.T) {
		env := newTestEnv(t)
		old := &models.Currency{Code: "DEM", Name: "Deutsche Mark"}
		testutil.AssertNoError(t, env.db.Create(old).Error)

		_, err := env.currencies.RequireActive(ctx, old.ID)
		testutil.AssertAppError(t, err, "CURRENCY_INACTIVE")
		_, err = env.currencies.RequireActive(ctx, env.usd.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("served_from_cache", func(t *testing.T) {
		env := newTestEnv(t)
		cache, err := NewCurrencyCache(16, time.Minute)
		testutil.AssertNoError(t, err)
		defer cache.Close()
		svc := NewCurrencyService(env.db, cache)

		_, err = svc.GetCurrencyByID(ctx, env.eur.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, env.db.Unscoped().Delete(&models.Currency{}, "id = ?", env.eur.ID).Error)

		byID, err := svc.GetCurrencyByID(ctx, env.eur.ID)
		testutil.AssertNoError(t, err)
		byCode, err := svc.GetCurrencyByCode(ctx, "EUR")
		testutil.AssertNoError(t, err)
		if byID.Code != "EUR" || byCode.ID != env.eur.ID {
			t.Errorf("expected cached EUR, got %s and %s", byID.Code, byCode.ID)
		}
	})
}
