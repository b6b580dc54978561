package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	userUseCase "github.com/hilthontt/eventra/application/usecases/user"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	UserContextKey = "user"
	userIDHeader   = "X-User-ID"
	userIDCookie   = "user_id"
)

// UserMiddleware resolves the authenticated principal from the request.
// The user id arrives as a header or cookie; requests without one, or
// naming a user that does not exist, are rejected.
func UserMiddleware(userUC userUseCase.UserUseCase, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing or invalid user identity",
			})
			c.Abort()
			return
		}

		user, err := userUC.GetByID(c.Request.Context(), userID)
		if err != nil {
			logger.Debug("failed to resolve request user", zap.Error(err), zap.Int64("userId", userID))
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "unknown user",
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)

		c.Next()
	}
}

func getUserIDFromRequest(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		cookie, err := c.Cookie(userIDCookie)
		if err != nil {
			return 0, false
		}
		raw = cookie
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func GetUserFromContext(c *gin.Context) (*model.User, bool) {
	user, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}

	u, ok := user.(*model.User)
	return u, ok
}
