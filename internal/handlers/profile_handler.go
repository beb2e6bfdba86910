package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/services"
)

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService services.UserServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{userService: userService, auditService: auditService}
}

// SetHomeCurrencyRequest represents the request payload for choosing a home currency.
type SetHomeCurrencyRequest struct {
	CurrencyID string `json:"currency_id" binding:"required,uuid"`
}

// GetProfile handles retrieving the current user.
// @Summary     Get profile
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SetHomeCurrency handles choosing the currency budgets and transactions are reported in.
// @Summary     Set home currency
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetHomeCurrencyRequest true "Home currency"
// @Success     200 {object} models.User "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input or inactive currency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User or currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/home-currency [put]
func (h *ProfileHandler) SetHomeCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetHomeCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.SetHomeCurrency(c.Request.Context(), userID, req.CurrencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SET_HOME_CURRENCY", "user", userID, c.ClientIP(),
		map[string]interface{}{"currency_id": req.CurrencyID})

	c.JSON(http.StatusOK, gin.H{"user": user})
}
