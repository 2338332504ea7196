package app

import (
	"errors"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/provider"
	"github.com/lightbike-next/internal/router"
	"github.com/lightbike-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	var services []Service
	workerStarted := false

	// 初始化 Worker 服务；all 模式下队列关闭时审计直接落库，不启动 worker
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, cfg.Audit, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
		workerStarted = true
	} else if mode == ModeAll {
		logger.Infow("app_worker_skipped_queue_disabled")
	}

	// 初始化 HTTP 服务与视图清理
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
		services = append(services, NewJanitorService(cfg.View, container.ViewService, janitorAuditPruner(container, workerStarted)))
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// janitorAuditPruner worker 未运行时由 janitor 负责审计清理
func janitorAuditPruner(container *provider.Container, workerStarted bool) AuditPruner {
	if workerStarted || container.AuditService == nil {
		return nil
	}
	return container.AuditService
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container := provider.NewContainer(opts.Config)
	defer container.Close()

	runner, err := BuildRunner(opts.Config, container, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
