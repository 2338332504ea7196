package shared

import (
	"strings"

	"github.com/lightbike-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ViewIDKey 视图令牌中间件写入的上下文键
const ViewIDKey = "view_id"

// ViewID 读取已鉴权的视图 ID，缺失时返回空串
func ViewID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	value, ok := c.Get(ViewIDKey)
	if !ok {
		return ""
	}
	viewID, _ := value.(string)
	return strings.TrimSpace(viewID)
}

// RequireViewID 读取视图 ID 并统一处理错误响应。
func RequireViewID(c *gin.Context) (string, bool) {
	viewID := ViewID(c)
	if viewID == "" {
		RespondError(c, response.CodeUnauthorized, "error.view_token_invalid", nil)
		return "", false
	}
	return viewID, true
}

// RequestID 读取请求 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	value, ok := c.Get("request_id")
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}
