package middleware

import "github.com/gin-gonic/gin"

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()

		headers.Set("X-Content-Type-Options", "nosniff")
		// SAMEORIGIN rather than DENY, the reading view embeds documents
		// in an iframe.
		headers.Set("X-Frame-Options", "SAMEORIGIN")
		headers.Set("X-XSS-Protection", "1; mode=block")
		headers.Set("Referrer-Policy", "no-referrer")

		c.Next()
	}
}
