package callback

import (
	"github.com/go-training/token-exchange/pkg/core"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware propagates or generates a request ID and stores it in
// the request context for core.LoggerFromCtx.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if reqID := c.GetHeader(requestIDHeader); reqID != "" {
			ctx = core.WithRequestIDValue(ctx, reqID)
		} else {
			ctx = core.WithRequestID(ctx)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, core.RequestIDFromContext(ctx))
		c.Next()
	}
}
