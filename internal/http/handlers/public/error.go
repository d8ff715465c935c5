package public

import (
	"github.com/bookmart-next/internal/http/response"
	"github.com/bookmart-next/internal/i18n"
	"github.com/bookmart-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLog 提供携带 request_id 的日志实例。
func requestLog(c *gin.Context) *zap.SugaredLogger {
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

// respondError 返回国际化错误响应，并在有原始错误时记录日志。
func respondError(c *gin.Context, code int, key string, err error) {
	respondErrorWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// respondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}
