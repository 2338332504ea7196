package router

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/http/handlers/shared"
	"github.com/lightbike-next/internal/http/response"
	"github.com/lightbike-next/internal/i18n"
	"github.com/lightbike-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const viewTokenHeader = "X-View-Token"
const diagnosticsTokenHeader = "X-Diagnostics-Token"

// ViewAuthorizer 校验视图令牌
type ViewAuthorizer interface {
	Authorize(token string) (string, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
			viewTokenHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// ViewTokenMiddleware 视图令牌鉴权：令牌必须签发给路径中的视图
func ViewTokenMiddleware(authorizer ViewAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractViewToken(c)
		if token == "" {
			msg := i18n.T(i18n.ResolveLocale(c), "error.view_token_invalid")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		viewID, err := authorizer.Authorize(token)
		if err != nil {
			logger.Debugw("view_token_rejected", "request_id", getRequestID(c), "error", err)
			msg := i18n.T(i18n.ResolveLocale(c), "error.view_token_invalid")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		if pathID := strings.TrimSpace(c.Param("view_id")); pathID != "" && pathID != viewID {
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}
		c.Set(shared.ViewIDKey, viewID)
		c.Next()
	}
}

func extractViewToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(viewTokenHeader)); token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// DiagnosticsTokenMiddleware 诊断接口鉴权；未配置 token 时接口关闭
func DiagnosticsTokenMiddleware(cfg config.DiagnosticsConfig) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(cfg.Token))
	return func(c *gin.Context) {
		if len(expected) == 0 {
			msg := i18n.T(i18n.ResolveLocale(c), "error.not_found")
			response.NotFound(c, msg)
			c.Abort()
			return
		}
		provided := []byte(strings.TrimSpace(c.GetHeader(diagnosticsTokenHeader)))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}
		c.Next()
	}
}
