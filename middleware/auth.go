package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"balloonshop/identity"
)

const sessionKey = "identity"

// Identity resolves the bearer token, if any, and stores the resulting
// session on the context. Requests without a usable token continue as
// anonymous visitors.
func Identity(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := identity.Anonymous
		if token := c.GetHeader("Authorization"); token != "" {
			if s, err := resolver.Resolve(token); err == nil {
				session = s
			}
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func Session(c *gin.Context) identity.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(identity.Session); ok {
			return s
		}
	}
	return identity.Anonymous
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := Session(c)
		if !session.SignedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
			return
		}
		if !session.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin only"})
			return
		}
		c.Next()
	}
}
