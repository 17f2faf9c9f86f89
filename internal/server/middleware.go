package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID, reusing one sent by the client.
// The ID is echoed in the response and stored on the request headers so the
// access log can print it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			generated, err := gonanoid.New()
			if err == nil {
				id = generated
			}
		}
		if id != "" {
			c.Request.Header.Set(RequestIDHeader, id)
			c.Header(RequestIDHeader, id)
		}
		c.Next()
	}
}

// CORS allows every origin and answers preflight requests directly.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
