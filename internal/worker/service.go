package worker

import (
	"context"
	"errors"
	"time"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	defaultAuditPruneInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	pruneInterval time.Duration
	log           *zap.SugaredLogger
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, audit config.AuditConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	interval := time.Duration(audit.PruneIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = defaultAuditPruneInterval
	}
	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		pruneInterval: interval,
		log:           logger.Named("worker"),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.AuditService != nil {
		go s.runAuditPruneLoop(ctx)
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runAuditPruneLoop(ctx context.Context) {
	runOnce := func() {
		deleted, err := s.consumer.AuditService.Prune(time.Now())
		if err != nil {
			s.log.Warnw("worker_audit_prune_failed", "error", err)
			return
		}
		if deleted > 0 {
			s.log.Infow("worker_audit_pruned", "deleted", deleted)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
