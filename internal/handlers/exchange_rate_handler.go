package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/pagination"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/services"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/uuid"
)

// ExchangeRateHandler handles exchange rate publishing and lookup.
type ExchangeRateHandler struct {
	rateService  services.ExchangeRateServicer
	auditService services.AuditServicer
}

// NewExchangeRateHandler creates a new ExchangeRateHandler.
func NewExchangeRateHandler(rateService services.ExchangeRateServicer, auditService services.AuditServicer) *ExchangeRateHandler {
	return &ExchangeRateHandler{rateService: rateService, auditService: auditService}
}

// CreateExchangeRateRequest represents a published rate: one unit of FromCurrencyID
// buys Rate units of ToCurrencyID from EffectiveDate on.
type CreateExchangeRateRequest struct {
	FromCurrencyID string          `json:"from_currency_id" binding:"required,uuid"`
	ToCurrencyID   string          `json:"to_currency_id" binding:"required,uuid,nefield=FromCurrencyID"`
	Rate           decimal.Decimal `json:"rate" swaggertype:"string" example:"0.92"`
	EffectiveDate  time.Time       `json:"effective_date" binding:"required"`
}

// RateQuoteResponse is the rate the caller would be charged for a pair right now.
type RateQuoteResponse struct {
	FromCurrencyID string          `json:"from_currency_id"`
	ToCurrencyID   string          `json:"to_currency_id"`
	Rate           decimal.Decimal `json:"rate" swaggertype:"string"`
	EffectiveDate  time.Time       `json:"effective_date"`
	ViaHome        bool            `json:"via_home"`
}

// CreateExchangeRate handles publishing a new rate.
// @Summary     Publish exchange rate
// @Description Publish a rate for an ordered currency pair. Used by the rate feed.
// @Tags        exchange-rates
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateExchangeRateRequest true "Rate details"
// @Success     201 {object} models.ExchangeRate "Rate created"
// @Failure     400 {object} ErrorResponse "Invalid input or inactive currency"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /exchange-rates [post]
func (h *ExchangeRateHandler) CreateExchangeRate(c *gin.Context) {
	var req CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if err := requirePositive("rate", req.Rate); err != nil {
		respondWithError(c, err)
		return
	}

	rate, err := h.rateService.CreateExchangeRate(c.Request.Context(),
		req.FromCurrencyID, req.ToCurrencyID, req.Rate, req.EffectiveDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "", "CREATE_EXCHANGE_RATE", "exchange_rate", rate.ID, c.ClientIP(),
		map[string]interface{}{
			"from_currency_id": req.FromCurrencyID,
			"to_currency_id":   req.ToCurrencyID,
			"rate":             req.Rate.String(),
			"effective_date":   req.EffectiveDate,
		})

	c.JSON(http.StatusCreated, gin.H{"exchange_rate": rate})
}

// GetExchangeRates handles listing published rates.
// @Summary     List exchange rates
// @Description Paginated rates, newest effective date first
// @Tags        exchange-rates
// @Produce     json
// @Security    BearerAuth
// @Param       from_currency_id query string false "Filter by source currency"
// @Param       to_currency_id   query string false "Filter by target currency"
// @Param       active_only      query bool   false "Only active rates"
// @Param       page             query int    false "Page number (default 1)"
// @Param       page_size        query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ExchangeRate] "Paginated rates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /exchange-rates [get]
func (h *ExchangeRateHandler) GetExchangeRates(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var (
		filter services.ExchangeRateFilter
		err    error
	)
	if filter.FromCurrencyID, err = optionalUUIDQuery(c, "from_currency_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ToCurrencyID, err = optionalUUIDQuery(c, "to_currency_id"); err != nil {
		respondWithError(c, err)
		return
	}
	activeOnly, err := optionalBoolQuery(c, "active_only")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ActiveOnly = activeOnly != nil && *activeOnly

	result, err := h.rateService.GetExchangeRates(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExchangeRate handles retrieving one rate.
// @Summary     Get exchange rate by ID
// @Tags        exchange-rates
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Exchange rate ID"
// @Success     200 {object} models.ExchangeRate "Rate"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rate not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /exchange-rates/{id} [get]
func (h *ExchangeRateHandler) GetExchangeRate(c *gin.Context) {
	rateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rate, err := h.rateService.GetExchangeRateByID(c.Request.Context(), rateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exchange_rate": rate})
}

// DeactivateExchangeRate handles withdrawing a published rate.
// @Summary     Deactivate exchange rate
// @Description Withdraw a rate; it stays listed but is no longer used for conversion
// @Tags        exchange-rates
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Exchange rate ID"
// @Success     200 {object} models.ExchangeRate "Deactivated rate"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Rate not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /exchange-rates/{id} [delete]
func (h *ExchangeRateHandler) DeactivateExchangeRate(c *gin.Context) {
	rateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rate, err := h.rateService.DeactivateExchangeRate(c.Request.Context(), rateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "", "DEACTIVATE_EXCHANGE_RATE", "exchange_rate", rateID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"exchange_rate": rate})
}

// GetQuote handles resolving the current rate for a pair.
// @Summary     Quote an exchange rate
// @Description Current rate for a pair, chaining through the caller's home currency when no direct rate exists
// @Tags        exchange-rates
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Source currency ID"
// @Param       to   query string true "Target currency ID"
// @Success     200 {object} RateQuoteResponse "Quote"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Exchange rate unavailable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /exchange-rates/quote [get]
func (h *ExchangeRateHandler) GetQuote(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, fromErr := uuid.Parse(c.Query("from"))
	to, toErr := uuid.Parse(c.Query("to"))
	if fromErr != nil || toErr != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from and to must be valid currency IDs"))
		return
	}

	quote, err := h.rateService.GetRate(c.Request.Context(), userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, RateQuoteResponse{
		FromCurrencyID: from,
		ToCurrencyID:   to,
		Rate:           quote.Rate,
		EffectiveDate:  quote.EffectiveDate,
		ViaHome:        quote.ViaHome,
	})
}
