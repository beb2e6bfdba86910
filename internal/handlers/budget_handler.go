package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/budgeting"
	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	CategoryID        string              `json:"category_id" binding:"required,uuid"`
	CurrencyID        string              `json:"currency_id" binding:"required,uuid"`
	Amount            decimal.Decimal     `json:"amount" swaggertype:"string" example:"500.00"`
	Period            models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	StartDate         time.Time           `json:"start_date" binding:"required"`
	Description       string              `json:"description" binding:"max=255"`
	AllowOverlap      bool                `json:"allow_overlap"`
	AlertAt80Percent  *decimal.Decimal    `json:"alert_at_80_percent" swaggertype:"string" example:"0.80"`
	AlertAt100Percent *decimal.Decimal    `json:"alert_at_100_percent" swaggertype:"string" example:"1.00"`
	AlertsEnabled     *bool               `json:"alerts_enabled"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
// Omitted fields are left unchanged.
type UpdateBudgetRequest struct {
	CategoryID        *string              `json:"category_id" binding:"omitempty,uuid"`
	CurrencyID        *string              `json:"currency_id" binding:"omitempty,uuid"`
	Amount            *decimal.Decimal     `json:"amount" swaggertype:"string"`
	Period            *models.BudgetPeriod `json:"period" binding:"omitempty,budget_period"`
	StartDate         *time.Time           `json:"start_date"`
	Description       *string              `json:"description" binding:"omitempty,max=255"`
	IsActive          *bool                `json:"is_active"`
	AllowOverlap      *bool                `json:"allow_overlap"`
	AlertAt80Percent  *decimal.Decimal     `json:"alert_at_80_percent" swaggertype:"string"`
	AlertAt100Percent *decimal.Decimal     `json:"alert_at_100_percent" swaggertype:"string"`
	AlertsEnabled     *bool                `json:"alerts_enabled"`
}

// UpdateBudgetAmountRequest represents the request payload for changing a budget amount.
type UpdateBudgetAmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"650.00"`
}

// SetBudgetStatusRequest represents the request payload for activating or deactivating a budget.
type SetBudgetStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// PreviewImpactRequest describes a transaction that has not been recorded.
type PreviewImpactRequest struct {
	CategoryID  string                 `json:"category_id" binding:"required,uuid"`
	CurrencyID  string                 `json:"currency_id" binding:"required,uuid"`
	Amount      decimal.Decimal        `json:"amount" swaggertype:"string" example:"120.00"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Date        time.Time              `json:"date" binding:"required"`
	Description string                 `json:"description" binding:"max=255"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a budget capping spending in an expense category for one period
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input or overlapping budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category or currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), userID, budgeting.BudgetParams{
		CategoryID:        req.CategoryID,
		CurrencyID:        req.CurrencyID,
		Amount:            req.Amount,
		Period:            req.Period,
		StartDate:         req.StartDate,
		Description:       req.Description,
		AllowOverlap:      req.AllowOverlap,
		AlertAt80Percent:  req.AlertAt80Percent,
		AlertAt100Percent: req.AlertAt100Percent,
		AlertsEnabled:     req.AlertsEnabled,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID, "amount": req.Amount.String(), "period": req.Period})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for the authenticated user
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active   query bool   false "Filter by active status"
// @Param       period      query string false "Filter by period (daily/weekly/monthly/quarterly/yearly)"
// @Param       category_id query string false "Filter by category ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var filter services.BudgetFilter
	if filter.IsActive, err = optionalBoolQuery(c, "is_active"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.CategoryID, err = optionalUUIDQuery(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if v := c.Query("period"); v != "" {
		p := models.BudgetPeriod(v)
		if !p.Valid() {
			respondWithError(c, apperrors.ErrInvalidPeriod)
			return
		}
		filter.Period = &p
	}

	result, err := h.budgetService.GetUserBudgets(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetActiveBudgets handles summarising every budget active on a date.
// @Summary     Get active budget summaries
// @Description Summaries of all active budgets covering a date, with totals in the home currency
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       category_id query string false "Only budgets for this category"
// @Param       date        query string false "Date to evaluate (default now)"
// @Success     200 {object} services.ActiveBudgetsSummary "Active budget summaries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Exchange rate unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/active [get]
func (h *BudgetHandler) GetActiveBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter services.ActiveBudgetFilter
	if filter.CategoryID, err = optionalUUIDQuery(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.Date, err = optionalDateQuery(c, "date"); err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetService.GetActiveBudgetSummaries(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, budgetID, ok := h.identify(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Partially update a budget; the end date is recomputed when the schedule changes
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to change"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or overlapping budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, budgetID, ok := h.identify(c)
	if !ok {
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if req.Amount != nil {
		if err := requirePositive("amount", *req.Amount); err != nil {
			respondWithError(c, err)
			return
		}
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, budgetID, budgeting.BudgetUpdate{
		CategoryID:        req.CategoryID,
		CurrencyID:        req.CurrencyID,
		Amount:            req.Amount,
		Period:            req.Period,
		StartDate:         req.StartDate,
		Description:       req.Description,
		IsActive:          req.IsActive,
		AllowOverlap:      req.AllowOverlap,
		AlertAt80Percent:  req.AlertAt80Percent,
		AlertAt100Percent: req.AlertAt100Percent,
		AlertsEnabled:     req.AlertsEnabled,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudgetAmount handles changing only the budgeted amount.
// @Summary     Update budget amount
// @Description Change the amount of a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Budget ID"
// @Param       request body UpdateBudgetAmountRequest true "New amount"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/amount [patch]
func (h *BudgetHandler) UpdateBudgetAmount(c *gin.Context) {
	userID, budgetID, ok := h.identify(c)
	if !ok {
		return
	}

	var req UpdateBudgetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudgetAmount(c.Request.Context(), userID, budgetID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_BUDGET_AMOUNT", "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// SetBudgetStatus handles activating or deactivating a budget.
// @Summary     Activate or deactivate budget
// @Description Reactivating is rejected when another active budget overlaps
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Budget ID"
// @Param       request body SetBudgetStatusRequest true "Desired status"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or overlapping budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/status [patch]
func (h *BudgetHandler) SetBudgetStatus(c *gin.Context) {
	userID, budgetID, ok := h.identify(c)
	if !ok {
		return
	}

	var req SetBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.SetBudgetActive(c.Request.Context(), userID, budgetID, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SET_BUDGET_STATUS", "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"is_active": *req.IsActive})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget by ID (soft delete)
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, budgetID, ok := h.identify(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetBudgetSummary handles retrieving the spending summary for a budget.
// @Summary     Get budget summary
// @Description Spending, remaining amount, status and alert level for a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} budgeting.BudgetSummary "Budget summary"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     422 {object} ErrorResponse "Exchange rate unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/summary [get]
func (h *BudgetHandler) GetBudgetSummary(c *gin.Context) {
	userID, budgetID, ok := h.identify(c)
	if !ok {
		return
	}

	summary, err := h.budgetService.GetBudgetSummary(c.Request.Context(), userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// PreviewImpact handles projecting a hypothetical transaction onto the user's budgets.
// @Summary     Preview transaction impact
// @Description Show how a transaction would change every active budget it falls into. Nothing is recorded.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PreviewImpactRequest true "Hypothetical transaction"
// @Success     200 {object} budgeting.ImpactPreview "Projected impact"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Exchange rate unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/preview-impact [post]
func (h *BudgetHandler) PreviewImpact(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PreviewImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		respondWithError(c, err)
		return
	}

	preview, err := h.budgetService.PreviewImpact(c.Request.Context(), userID, budgeting.Hypothetical{
		CategoryID:  req.CategoryID,
		CurrencyID:  req.CurrencyID,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// identify resolves the caller and the :id path parameter, writing the error response
// itself when either is missing.
func (h *BudgetHandler) identify(c *gin.Context) (userID, budgetID string, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	budgetID, err = parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	return userID, budgetID, true
}
