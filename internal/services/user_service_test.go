package services

import (
	"context"
	"testing"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/testutil"
)

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewUserService(env.db, env.currencies)

	t.Run("found", func(t *testing.T) {
		user, err := svc.GetUserByID(ctx, env.user.ID)
		testutil.AssertNoError(t, err)
		if user.HomeCurrency == nil || user.HomeCurrency.Code != "USD" {
			t.Error("expected home currency USD to be loaded")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.GetUserByID(ctx, "018f0000-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestHomeCurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("not_set", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewUserService(env.db, env.currencies)
		user := testutil.CreateTestUser(t, env.db)

		_, err := svc.GetHomeCurrency(ctx, user.ID)
		testutil.AssertAppError(t, err, "HOME_CURRENCY_NOT_SET")
	})

	t.Run("set_and_get", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewUserService(env.db, env.currencies)

		user, err := svc.SetHomeCurrency(ctx, env.user.ID, env.eur.ID)
		testutil.AssertNoError(t, err)
		if user.HomeCurrencyID == nil || *user.HomeCurrencyID != env.eur.ID {
			t.Fatalf("expected home currency EUR, got %v", user.HomeCurrencyID)
		}

		cur, err := svc.GetHomeCurrency(ctx, env.user.ID)
		testutil.AssertNoError(t, err)
		if cur.Code != "EUR" {
			t.Errorf("expected EUR, got %s", cur.Code)
		}
	})

	t.Run("inactive_currency", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewUserService(env.db, env.currencies)
		old := &models.Currency{Code: "DEM", Name: "Deutsche Mark"}
		testutil.AssertNoError(t, env.db.Create(old).Error)

		_, err := svc.SetHomeCurrency(ctx, env.user.ID, old.ID)
		testutil.AssertAppError(t, err, "CURRENCY_INACTIVE")
	})
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewUserService(env.db, env.currencies)
	userID := "018f0000-0000-7000-8000-0000000000aa"

	t.Run("creates_on_first_sight", func(t *testing.T) {
		user, err := svc.EnsureUser(ctx, userID, " First@Example.com ")
		testutil.AssertNoError(t, err)
		if user.ID != userID || user.Email != "first@example.com" {
			t.Errorf("unexpected user %s %s", user.ID, user.Email)
		}
		if user.HomeCurrencyID != nil {
			t.Error("expected no home currency")
		}
	})

	t.Run("returns_existing", func(t *testing.T) {
		user, err := svc.EnsureUser(ctx, env.user.ID, env.user.Email)
		testutil.AssertNoError(t, err)
		if user.HomeCurrencyID == nil || *user.HomeCurrencyID != env.usd.ID {
			t.Error("expected existing home currency to be kept")
		}

		var count int64
		env.db.Model(&models.User{}).Where("id IN ?", []string{userID, env.user.ID}).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 users, got %d", count)
		}
	})

	t.Run("email_taken_by_another_user", func(t *testing.T) {
		_, err := svc.EnsureUser(ctx, "018f0000-0000-7000-8000-0000000000ab", env.user.Email)
		testutil.AssertAppError(t, err, "EMAIL_IN_USE")
	})

	t.Run("missing_email", func(t *testing.T) {
		_, err := svc.EnsureUser(ctx, "018f0000-0000-7000-8000-0000000000ac", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
