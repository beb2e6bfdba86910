package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/services"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/uuid"
)

// CurrencyHandler serves currency reference data.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// GetCurrencies handles listing currencies.
// @Summary     List currencies
// @Description List currencies ordered by code; inactive ones are included only on request
// @Tags        currencies
// @Produce     json
// @Security    BearerAuth
// @Param       include_inactive query bool false "Include inactive currencies"
// @Success     200 {array}  models.Currency "Currencies"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *CurrencyHandler) GetCurrencies(c *gin.Context) {
	includeInactive, err := optionalBoolQuery(c, "include_inactive")
	if err != nil {
		respondWithError(c, err)
		return
	}
	activeOnly := includeInactive == nil || !*includeInactive

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context(), activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// GetCurrency handles retrieving a currency by ID or ISO 4217 code.
// @Summary     Get currency
// @Tags        currencies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID or ISO code"
// @Success     200 {object} models.Currency "Currency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies/{id} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	ref := c.Param("id")

	var (
		currency *models.Currency
		err      error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		currency, err = h.currencyService.GetCurrencyByID(c.Request.Context(), id)
	} else {
		currency, err = h.currencyService.GetCurrencyByCode(c.Request.Context(), strings.ToUpper(ref))
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}
