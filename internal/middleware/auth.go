package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfumery/internal/auth"
)

const (
	// SessionCookie carries the operator session token.
	SessionCookie = "jwt"
	ClaimsKey     = "claims"
)

type TokenParser interface {
	ParseToken(raw string) (auth.Claims, error)
}

// bearerToken prefers the session cookie and falls back to an
// "Authorization: Bearer" header.
func bearerToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), true
	}

	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return "", false
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func AdminAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - No token provided"})
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
