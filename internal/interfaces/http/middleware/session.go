// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/shopease-cart/internal/pkg/auth"
)

// SessionHeader carries the signed cart session token in both directions.
const SessionHeader = "X-Cart-Session"

const cartIDKey = "cart_id"

// CartSession resolves the cart identity for the request. An absent or
// invalid token mints a fresh cart; the (possibly new) token is echoed on
// the response so the storefront can hold on to it.
func CartSession(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cartID string

		if token := c.GetHeader(SessionHeader); token != "" {
			if id, err := sessions.Parse(token); err == nil {
				cartID = id
			}
		}

		if cartID == "" {
			cartID = sessions.NewCartID()
		}

		if token, err := sessions.Issue(cartID); err == nil {
			c.Header(SessionHeader, token)
		}

		c.Set(cartIDKey, cartID)
		c.Next()
	}
}

// CartIDFromContext returns the cart identity resolved by CartSession.
func CartIDFromContext(c *gin.Context) string {
	return c.GetString(cartIDKey)
}
