package service

import (
	"strings"
	"time"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/models"
	"github.com/lightbike-next/internal/queue"
	"github.com/lightbike-next/internal/repository"

	"github.com/shopspring/decimal"
)

// AuditService 购物车突变审计：优先走异步队列，队列不可用时直接落库
type AuditService struct {
	repo      repository.MutationLogRepository
	queue     *queue.Client
	retention time.Duration
}

// NewAuditService 创建审计服务
func NewAuditService(cfg config.AuditConfig, repo repository.MutationLogRepository, queueClient *queue.Client) *AuditService {
	days := cfg.RetentionDays
	if days <= 0 {
		days = 14
	}
	return &AuditService{
		repo:      repo,
		queue:     queueClient,
		retention: time.Duration(days) * 24 * time.Hour,
	}
}

// Record 记录一次突变，不影响请求结果
func (s *AuditService) Record(payload queue.CartMutationAuditPayload) {
	if s == nil {
		return
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now()
	}
	if s.queue != nil && s.queue.Enabled() {
		err := s.queue.EnqueueCartMutationAudit(payload)
		if err == nil {
			return
		}
		logger.Warnw("cart_mutation_audit_enqueue_failed",
			"view_id", payload.ViewID,
			"variant_id", payload.VariantID,
			"error", err,
		)
	}
	if err := s.Persist(payload); err != nil {
		logger.Warnw("cart_mutation_audit_persist_failed",
			"view_id", payload.ViewID,
			"variant_id", payload.VariantID,
			"error", err,
		)
	}
}

// Persist 写入审计记录（worker 消费任务时调用）
func (s *AuditService) Persist(payload queue.CartMutationAuditPayload) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if strings.TrimSpace(payload.ViewID) == "" || strings.TrimSpace(payload.VariantID) == "" {
		return nil
	}
	total := decimal.Zero
	if raw := strings.TrimSpace(payload.CartTotal); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err == nil {
			total = parsed
		}
	}
	outcome := strings.TrimSpace(payload.Outcome)
	switch outcome {
	case constants.MutationOutcomeApplied, constants.MutationOutcomeRejected:
	default:
		outcome = constants.MutationOutcomeFailed
	}
	createdAt := payload.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.repo.Create(&models.CartMutationLog{
		ViewID:         strings.TrimSpace(payload.ViewID),
		RequestID:      strings.TrimSpace(payload.RequestID),
		VariantID:      strings.TrimSpace(payload.VariantID),
		Action:         strings.TrimSpace(payload.Action),
		Outcome:        outcome,
		Reason:         truncate(strings.TrimSpace(payload.Reason), 64),
		QuantityBefore: payload.QuantityBefore,
		QuantityAfter:  payload.QuantityAfter,
		LineRemoved:    payload.LineRemoved,
		CartTotal:      models.NewMoneyFromDecimal(total),
		LatencyMS:      payload.LatencyMS,
		CreatedAt:      createdAt,
	})
}

// List 查询审计记录
func (s *AuditService) List(filter repository.MutationLogFilter) ([]models.CartMutationLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.CartMutationLog{}, 0, nil
	}
	return s.repo.List(filter)
}

// Prune 清理保留期之前的记录
func (s *AuditService) Prune(now time.Time) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, nil
	}
	return s.repo.DeleteBefore(now.Add(-s.retention))
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
