package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/services"
)

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired проверяет Bearer-токен и кладёт user_id в контекст.
func AuthRequired(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing or invalid Authorization header"})
			return
		}

		userID, err := tokens.ParseAccessToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// AuthOptional — как AuthRequired, но без токена запрос идёт дальше
// анонимно. Нужен эндпоинтам вроде verify-code, где привязка к аккаунту
// происходит только при наличии токена.
func AuthOptional(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr != "" {
			if userID, err := tokens.ParseAccessToken(tokenStr); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

// UserID достаёт идентификатор из контекста; 0 для анонимного запроса.
func UserID(c *gin.Context) int {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, _ := v.(int)
	return id
}
