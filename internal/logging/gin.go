package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const headerRequestID = "X-Request-ID"

// GinMiddleware logs one line per request and propagates X-Request-ID.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(headerRequestID, reqID)

		child := log.With().
			Str("module", "adapters.http").
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Logger()
		c.Request = c.Request.WithContext(child.WithContext(c.Request.Context()))

		c.Next()

		evt := child.Info()
		if c.Writer.Status() >= 500 {
			evt = child.Error()
		}
		evt.Int("status", c.Writer.Status()).
			Float64("latency_ms", float64(time.Since(start).Microseconds())/1000).
			Msg("request completed")
	}
}
