// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"gongu-report-go/pkg/log"
)

// RequestLogger 是一个 Gin 中间件，用于记录请求访问日志。
// 上传接口会携带大文件，这里只记录请求与响应的大小而不捕获内容。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestSize", c.Request.ContentLength,
			"responseSize", c.Writer.Size(),
		)
	}
}
