package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"
)

// HTTPService BFF 的 HTTP 监听
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务，超时取自 server 配置
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: secondsOr(cfg.ReadHeaderTimeoutSeconds, 10*time.Second),
			IdleTimeout:       secondsOr(cfg.IdleTimeoutSeconds, 120*time.Second),
			ErrorLog:          logger.StdLogger(),
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start 阻塞监听，Shutdown 后返回 nil
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭；请求上下文随运行上下文取消，长轮询立即返回
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
