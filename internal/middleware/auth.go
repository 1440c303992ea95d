package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller identity set by the upstream gateway.
const UserIDHeader = "X-User-ID"

// UserIdentityMiddleware reads the caller's user ID from UserIDHeader and
// stores it in the Gin context, the request context and the request logger.
// Requests without it are rejected with 401.
func UserIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			logger.Warn("User identity header missing", slog.String("header", UserIDHeader))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": UserIDHeader + " header required"})
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Set(string(userIDKey), userID)

		c.Next()
	}
}
