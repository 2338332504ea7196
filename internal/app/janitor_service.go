package app

import (
	"context"
	"sync"
	"time"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultJanitorInterval = time.Minute
	janitorPruneEvery      = 60
)

// ViewSweeper 回收空闲视图
type ViewSweeper interface {
	SweepIdle(now time.Time) int
	CloseAll()
}

// AuditPruner 清理过期审计记录
type AuditPruner interface {
	Prune(now time.Time) (int64, error)
}

// JanitorService 周期回收空闲视图，页面卸载请求丢失时兜底
type JanitorService struct {
	interval time.Duration
	views    ViewSweeper
	audit    AuditPruner
	now      func() time.Time
	log      *zap.SugaredLogger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewJanitorService 创建清理服务；audit 为 nil 时只回收视图
func NewJanitorService(cfg config.ViewConfig, views ViewSweeper, audit AuditPruner) *JanitorService {
	interval := time.Duration(cfg.JanitorIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	return &JanitorService{
		interval: interval,
		views:    views,
		audit:    audit,
		now:      time.Now,
		log:      logger.Named("janitor"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Name 服务名称
func (s *JanitorService) Name() string {
	return "janitor"
}

// Start 启动清理循环，直到 ctx 取消或 Stop
func (s *JanitorService) Start(ctx context.Context) error {
	defer close(s.doneCh)
	if s.views == nil {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.sweep()
			ticks++
			if ticks%janitorPruneEvery == 0 {
				s.prune()
			}
		}
	}
}

// Stop 停止循环并关闭所有视图
func (s *JanitorService) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	select {
	case <-s.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.views != nil {
		s.views.CloseAll()
	}
	return nil
}

func (s *JanitorService) sweep() {
	if removed := s.views.SweepIdle(s.now()); removed > 0 {
		s.log.Infow("janitor_views_swept", "removed", removed)
	}
}

func (s *JanitorService) prune() {
	if s.audit == nil {
		return
	}
	deleted, err := s.audit.Prune(s.now())
	if err != nil {
		s.log.Warnw("janitor_audit_prune_failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.Infow("janitor_audit_pruned", "deleted", deleted)
	}
}
