package middleware

import (
	"github.com/gin-gonic/gin"
)

// ContextClientIPKey holds the resolved client IP in the gin context
const ContextClientIPKey = "client_ip"

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		c.Set(ContextClientIPKey, c.ClientIP())
		c.Next()
	}
}

// GetClientIP returns the client IP stored by IPMiddleware, falling back
// to gin's own resolution when the middleware did not run.
func GetClientIP(c *gin.Context) string {
	if value, exists := c.Get(ContextClientIPKey); exists {
		if ip, ok := value.(string); ok {
			return ip
		}
	}
	return c.ClientIP()
}
