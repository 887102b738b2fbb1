package middleware

import (
	"net/http"

	"zomaksho/internal/session"

	"github.com/gin-gonic/gin"
)

func RequireRole(allowedRoles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role missing"})
			return
		}

		for _, allowed := range allowedRoles {
			if s.Role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
