package services

import (
	"context"
	"testing"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewCategoryService(env.db)

		cat, err := svc.CreateCategory(ctx, env.user.ID, " Dining ", models.CategoryTypeExpense, "Restaurants", "fork", "#ff0000")
		testutil.AssertNoError(t, err)
		if cat.Name != "Dining" || cat.Type != models.CategoryTypeExpense {
			t.Errorf("unexpected category %q of type %s", cat.Name, cat.Type)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewCategoryService(env.db)

		_, err := svc.CreateCategory(ctx, env.user.ID, "Dining", models.CategoryTypeExpense, "", "", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(ctx, env.user.ID, "Dining", models.CategoryTypeExpense, "", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("empty_name", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := NewCategoryService(env.db).CreateCategory(ctx, env.user.ID, "  ", models.CategoryTypeExpense, "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := NewCategoryService(env.db).CreateCategory(ctx, env.user.ID, "Misc", "transfer", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewCategoryService(env.db)
	testutil.CreateTestCategory(t, env.db, env.user.ID, models.CategoryTypeIncome)
	other := testutil.CreateTestUser(t, env.db)
	testutil.CreateTestCategory(t, env.db, other.ID, models.CategoryTypeExpense)

	all, err := svc.GetUserCategories(ctx, env.user.ID, nil, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if all.TotalItems != 2 {
		t.Errorf("expected 2 categories, got %d", all.TotalItems)
	}

	expense := models.CategoryTypeExpense
	expenses, err := svc.GetUserCategories(ctx, env.user.ID, &expense, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if expenses.TotalItems != 1 || expenses.Data[0].ID != env.food.ID {
		t.Errorf("expected only the food category, got %d", expenses.TotalItems)
	}
}

func TestGetCategoryByID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewCategoryService(env.db)
	other := testutil.CreateTestUser(t, env.db)

	_, err := svc.GetCategoryByID(ctx, env.user.ID, env.food.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetCategoryByID(ctx, other.ID, env.food.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}
