package middleware

import (
	"Aviary/pkg/context"
	"Aviary/pkg/snowflake"

	"github.com/gin-gonic/gin"
)

const HeaderRequestID = "X-Request-Id"

// RequestID 透传或生成请求ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = snowflake.GenRequestID()
		}
		c.Set(context.CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
