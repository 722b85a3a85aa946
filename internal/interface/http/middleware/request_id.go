package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求ID的HTTP头
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey 请求ID在gin.Context中的键
	RequestIDKey = "request_id"
)

// RequestID 请求ID中间件
// 上游已携带X-Request-ID时沿用，否则生成UUID；同时写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
