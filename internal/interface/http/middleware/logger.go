package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// slowRequestThreshold 慢请求阈值
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 记录方法、路径、状态码、耗时、客户端IP、请求ID和TraceID
// 5xx记为Error，4xx记为Warn，其余为Info
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP())

		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			event = event.Str("trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("HTTP Request")

		if latency > slowRequestThreshold {
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Dur("latency", latency).
				Msg("slow request")
		}
	}
}
