package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderTraceID 链路追踪头，访问日志和 CORS 暴露头共用这一个名字
const HeaderTraceID = "X-Trace-ID"

// ctxTraceID gin 上下文键，访问日志从这里取追踪ID
const ctxTraceID = "trace_id"

// TraceMiddleware 透传或生成链路追踪ID
// 网关带来的 ID 原样透传，折扣查询和核销两次调用可以在日志里串起来
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(ctxTraceID, traceID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
