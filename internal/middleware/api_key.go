package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
)

// RateFeedAuth guards exchange-rate writes. Rates are published by an external feed
// that authenticates with the X-API-Key header rather than a user token.
func RateFeedAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, &apperrors.AppError{
				Code:       "RATE_FEED_NOT_CONFIGURED",
				Message:    "Exchange rate publishing is not configured",
				StatusCode: http.StatusServiceUnavailable,
			})
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, &apperrors.AppError{
				Code:       "INVALID_API_KEY",
				Message:    "Invalid or missing API key",
				StatusCode: http.StatusUnauthorized,
			})
			return
		}
		c.Next()
	}
}
