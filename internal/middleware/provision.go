package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/IKER-Finance/iker-finance-backend-sub000/internal/errors"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/logger"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
)

// UserProvisioner creates the local user row for a verified token.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, userID, email string) (*models.User, error)
}

// ProvisionUser makes sure the authenticated user exists locally before any handler
// runs. It must be mounted after AuthMiddleware.
func ProvisionUser(users UserProvisioner) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		email := c.GetString(EmailKey)
		if userID == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		if _, err := users.EnsureUser(c.Request.Context(), userID, email); err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if appErr.StatusCode >= 500 {
				logger.Named("auth").Errorw("failed to provision user", "user_id", userID, "error", err)
			}
			abortWithError(c, appErr)
			return
		}
		c.Next()
	}
}
