package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"memoirvault/internal/common"
	"memoirvault/internal/server/auth"
)

// userIDKey is the gin context key the middleware stores the caller under.
const userIDKey = "userID"

func jwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(common.AuthHeaderName)
		if !strings.HasPrefix(authHeader, common.BearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, common.BearerPrefix)
		userID, err := auth.GetUserIDFromToken(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
