package shared

import (
	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/i18n"
	"github.com/lightbike-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应；有原始错误时记录日志，5xx 记 error，其余记 warn。
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, key, i18n.T(i18n.ResolveLocale(c), key), err)
	if err != nil {
		log := RequestLog(c)
		if code >= response.CodeInternal {
			log.Errorw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", err)
		} else {
			log.Warnw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", err)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
