package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/config"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/logger"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/uuid"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/testutil"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
	validator.Register()
}

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	router *gin.Engine
	token  string
	usd    *models.Currency
	eur    *models.Currency
	user   *models.User
}

var testConfig = &config.Config{
	CORSOrigin:         "*",
	JWTSecret:          "test-secret",
	JWTIssuer:          "iker-test",
	RateFeedAPIKey:     "feed-key",
	SummaryConcurrency: 2,
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	usd := testutil.CreateTestCurrency(t, db, "USD")
	eur := testutil.CreateTestCurrency(t, db, "EUR")
	user := testutil.CreateTestUserWithHomeCurrency(t, db, usd.ID)

	now := clock.Fixed{At: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)}
	return &testApp{
		router: newRouter(testConfig, db, now, nil),
		token:  signToken(t, user.ID, user.Email),
		usd:    usd,
		eur:    eur,
		user:   user,
	}
}

func signToken(t *testing.T, userID, email string) string {
	t.Helper()
	token, err := testutil.SignAccessToken([]byte(testConfig.JWTSecret), testConfig.JWTIssuer, userID, email, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func (a *testApp) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) authed(method, path, body string) *httptest.ResponseRecorder {
	return a.request(method, path, body, map[string]string{"Authorization": "Bearer " + a.token})
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectDecimal(t *testing.T, field string, got interface{}, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("%s: expected decimal string, got %T %v", field, got, got)
	}
	if !decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, s)
	}
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	rec := app.request(http.MethodGet, "/api/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestRoutesRequireAuth(t *testing.T) {
	app := setupApp(t)

	rec := app.request(http.MethodGet, "/api/v1/budgets", "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = app.request(http.MethodPost, "/api/v1/exchange-rates", `{}`, nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	// A user token is not a feed key.
	rec = app.authed(http.MethodPost, "/api/v1/exchange-rates", `{}`)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestBudgetFlow_ForeignCurrencySpendingAndImpactPreview(t *testing.T) {
	app := setupApp(t)
	feed := map[string]string{"X-API-Key": testConfig.RateFeedAPIKey}

	// Step 1: the feed publishes EUR→USD
	rec := app.request(http.MethodPost, "/api/v1/exchange-rates", fmt.Sprintf(
		`{"from_currency_id":%q,"to_currency_id":%q,"rate":"1.08","effective_date":"2024-03-01T00:00:00Z"}`,
		app.eur.ID, app.usd.ID), feed)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.authed(http.MethodGet, fmt.Sprintf("/api/v1/exchange-rates/quote?from=%s&to=%s", app.eur.ID, app.usd.ID), "")
	expectStatus(t, rec, http.StatusOK)
	expectDecimal(t, "quote rate", parseJSON(t, rec)["rate"], "1.08")

	// Step 2: an expense category
	rec = app.authed(http.MethodPost, "/api/v1/categories", `{"name":"Groceries","type":"expense"}`)
	expectStatus(t, rec, http.StatusCreated)
	categoryID := parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)

	// Step 3: a monthly USD budget for March
	rec = app.authed(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(
		`{"category_id":%q,"currency_id":%q,"amount":"500","period":"monthly","start_date":"2024-03-01T00:00:00Z"}`,
		categoryID, app.usd.ID))
	expectStatus(t, rec, http.StatusCreated)
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	budgetID := budget["id"].(string)
	if !strings.HasPrefix(budget["end_date"].(string), "2024-03-31T23:59:59") {
		t.Errorf("expected end of March, got %v", budget["end_date"])
	}

	// Step 4: an overlapping budget is rejected
	rec = app.authed(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(
		`{"category_id":%q,"currency_id":%q,"amount":"100","period":"weekly","start_date":"2024-03-10T00:00:00Z"}`,
		categoryID, app.usd.ID))
	expectStatus(t, rec, http.StatusBadRequest)
	if code := parseJSON(t, rec)["error"].(map[string]interface{})["code"]; code != "BUDGET_OVERLAP" {
		t.Errorf("expected BUDGET_OVERLAP, got %v", code)
	}

	// Step 5: a EUR expense is converted into the budget currency
	rec = app.authed(http.MethodPost, "/api/v1/transactions", fmt.Sprintf(
		`{"category_id":%q,"currency_id":%q,"type":"expense","amount":"250","date":"2024-03-10T09:00:00Z","description":"Market"}`,
		categoryID, app.eur.ID))
	expectStatus(t, rec, http.StatusCreated)
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	expectDecimal(t, "converted_amount", tx["converted_amount"], "270")

	// Step 6: the summary reflects 270 of 500 spent
	rec = app.authed(http.MethodGet, "/api/v1/budgets/"+budgetID+"/summary", "")
	expectStatus(t, rec, http.StatusOK)
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	expectDecimal(t, "spent", summary["spent"], "270")
	expectDecimal(t, "remaining", summary["remaining"], "230")
	expectDecimal(t, "percentage", summary["percentage"], "54")
	if summary["status"] != "on_track" {
		t.Errorf("expected on_track, got %v", summary["status"])
	}

	// Step 7: previewing a 300 USD expense warns about the overrun
	rec = app.authed(http.MethodPost, "/api/v1/budgets/preview-impact", fmt.Sprintf(
		`{"category_id":%q,"currency_id":%q,"type":"expense","amount":"300","date":"2024-03-20T00:00:00Z"}`,
		categoryID, app.usd.ID))
	expectStatus(t, rec, http.StatusOK)
	preview := parseJSON(t, rec)
	affected := preview["affected_budgets"].([]interface{})
	if len(affected) != 1 {
		t.Fatalf("expected 1 affected budget, got %d", len(affected))
	}
	impact := affected[0].(map[string]interface{})
	expectDecimal(t, "after_spent", impact["after_spent"], "570")
	if impact["status_after"] != "over_budget" || impact["will_trigger_alert"] != true {
		t.Errorf("expected over_budget with alert, got %v / %v", impact["status_after"], impact["will_trigger_alert"])
	}
	if warnings := preview["warnings"].([]interface{}); len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", warnings)
	}

	// Step 8: the preview recorded nothing
	rec = app.authed(http.MethodGet, "/api/v1/transactions", "")
	expectStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"].(float64); total != 1 {
		t.Errorf("expected 1 transaction, got %.0f", total)
	}

	// Step 9: active summaries total in the home currency
	rec = app.authed(http.MethodGet, "/api/v1/budgets/active?date=2024-03-15", "")
	expectStatus(t, rec, http.StatusOK)
	active := parseJSON(t, rec)
	if budgets := active["budgets"].([]interface{}); len(budgets) != 1 {
		t.Fatalf("expected 1 active budget, got %d", len(budgets))
	}
	expectDecimal(t, "total_spent", active["total_spent"], "270")
}

func TestBudgetFlow_RateUnavailable(t *testing.T) {
	app := setupApp(t)

	rec := app.authed(http.MethodPost, "/api/v1/categories", `{"name":"Travel","type":"expense"}`)
	expectStatus(t, rec, http.StatusCreated)
	categoryID := parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)

	// No EUR→USD rate has been published.
	rec = app.authed(http.MethodPost, "/api/v1/transactions", fmt.Sprintf(
		`{"category_id":%q,"currency_id":%q,"type":"expense","amount":"10","date":"2024-03-10T00:00:00Z"}`,
		categoryID, app.eur.ID))
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if code := parseJSON(t, rec)["error"].(map[string]interface{})["code"]; code != "RATE_UNAVAILABLE" {
		t.Errorf("expected RATE_UNAVAILABLE, got %v", code)
	}
}

func TestFirstRequestProvisionsUser(t *testing.T) {
	app := setupApp(t)
	newcomer := map[string]string{"Authorization": "Bearer " + signToken(t, uuid.New(), "Newcomer@Example.com")}

	rec := app.request(http.MethodGet, "/api/v1/profile", "", newcomer)
	expectStatus(t, rec, http.StatusOK)
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "newcomer@example.com" {
		t.Errorf("expected normalised email, got %v", user["email"])
	}
	if _, ok := user["home_currency_id"]; ok {
		t.Errorf("expected no home currency yet, got %v", user["home_currency_id"])
	}

	rec = app.request(http.MethodPut, "/api/v1/profile/home-currency", fmt.Sprintf(`{"currency_id":%q}`, app.eur.ID), newcomer)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodPost, "/api/v1/categories", `{"name":"Rent","type":"expense"}`, newcomer)
	expectStatus(t, rec, http.StatusCreated)
	categoryID := parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)

	rec = app.request(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(
		`{"category_id":%q,"currency_id":%q,"amount":"900","period":"monthly","start_date":"2024-03-01T00:00:00Z"}`,
		categoryID, app.eur.ID), newcomer)
	expectStatus(t, rec, http.StatusCreated)

	// A second identity claiming the same email is refused.
	impostor := map[string]string{"Authorization": "Bearer " + signToken(t, uuid.New(), "newcomer@example.com")}
	rec = app.request(http.MethodGet, "/api/v1/profile", "", impostor)
	expectStatus(t, rec, http.StatusConflict)
}
