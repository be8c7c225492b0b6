package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rshade/regenesis/internal/logging"
)

const headerTraceID = "X-Trace-ID"

// requestContext attaches the logger and a trace ID to the request context.
// A trace ID supplied by the client is reused.
func requestContext(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(headerTraceID); id != "" {
			ctx = logging.ContextWithTraceID(ctx, id)
		}
		traceID := logging.GetOrGenerateTraceID(ctx)
		ctx = logging.ContextWithTraceID(ctx, traceID)
		ctx = log.WithContext(ctx)

		c.Request = c.Request.WithContext(ctx)
		c.Header(headerTraceID, traceID)
		c.Next()
	}
}

// requestLogger logs each request with timing.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		ctx := c.Request.Context()
		logging.FromContext(ctx).Info().
			Ctx(ctx).
			Str("operation", "http_request").
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}
