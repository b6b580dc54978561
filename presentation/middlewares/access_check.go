package middlewares

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

// AccessChecker decides whether userID may act on the resource. A nil
// return allows the request through.
type AccessChecker func(ctx context.Context, userID, resourceID int64) error

// AccessCheck guards a route with a named capability. The resource id
// comes from the given path parameter; checker failures map onto the
// usual error statuses.
func AccessCheck(capability, param string, checker AccessChecker, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUserFromContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "user not found in context",
			})
			c.Abort()
			return
		}

		resourceID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || resourceID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "invalid " + param,
			})
			c.Abort()
			return
		}

		if err := checker(c.Request.Context(), user.ID, resourceID); err != nil {
			logger.Debug("access check failed",
				zap.String("capability", capability),
				zap.Int64("userId", user.ID),
				zap.Int64("resourceId", resourceID),
				zap.Error(err))

			status := http.StatusForbidden
			code := "forbidden"
			switch apperrors.KindOf(err) {
			case apperrors.KindNotFound:
				status = http.StatusNotFound
				code = "not_found"
			case apperrors.KindUnavailable:
				status = http.StatusServiceUnavailable
				code = "unavailable"
			}

			c.JSON(status, gin.H{
				"error":   code,
				"message": "access denied",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ParticipantChecker allows only event participants through.
func ParticipantChecker(isParticipant func(ctx context.Context, eventID, userID int64) (bool, error)) AccessChecker {
	return func(ctx context.Context, userID, eventID int64) error {
		ok, err := isParticipant(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.AccessDenied("user is not a participant of this event")
		}
		return nil
	}
}
