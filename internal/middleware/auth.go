package middleware

import (
	"net/http"
	"strings"

	"zomaksho/internal/session"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Auth resolves the bearer token into a session and attaches it to the
// request. Browsers cannot set headers on websocket upgrades, so a
// ?token= query parameter is accepted as a fallback.
func Auth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		s, err := sessions.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
			return
		}

		log.WithFields(log.Fields{
			"session": s.ID,
			"role":    s.Role,
		}).Debug("session resolved")

		session.Attach(c, s)
		c.Next()
	}
}

// bearerToken returns ok=false when no credential was supplied at all and
// an empty token when one was supplied in the wrong shape.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query("token"); q != "" {
			return q, true
		}
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return parts[1], true
}
