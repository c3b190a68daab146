package middleware

import (
	"github.com/gin-gonic/gin"

	"realestate-backend/internal/shared/utils"
)

const ContextClientIP = "client_ip"

// ClientIPMiddleware stores the caller address for rate limiting and logs.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, utils.ExtractClientIP(c.Request))
		c.Next()
	}
}

// GetClientIP returns the stored address, falling back to gin's ClientIP.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}
