package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartCookie       = "cart_session"
	CartHeader       = "X-Cart-Session"
	cartSessionKey   = "cartSession"
	cartCookieMaxAge = 30 * 24 * 60 * 60
)

// CartSession picks the browser's cart id from the header or cookie, minting
// a new one when neither carries a usable value.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CartHeader)
		if id == "" {
			id, _ = c.Cookie(CartCookie)
		}
		// only ids this middleware could have minted are accepted
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		} else {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartCookie, id, cartCookieMaxAge, "/", "", false, true)
		c.Header(CartHeader, id)
		c.Set(cartSessionKey, id)
		c.Next()
	}
}

func CartSessionID(c *gin.Context) string {
	return c.GetString(cartSessionKey)
}
