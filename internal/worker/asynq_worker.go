package worker

import (
	"context"

	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/provider"
	"github.com/lightbike-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Named("worker").Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartMutationAudit, c.handleCartMutationAudit)
}

func (c *Consumer) handleCartMutationAudit(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Named("worker").Debugw("worker_cart_mutation_audit_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCartMutationAuditPayload(task)
	if err != nil {
		logger.Named("worker").Warnw("worker_cart_mutation_audit_unmarshal_failed", "error", err)
		return err
	}
	if payload.ViewID == "" || payload.VariantID == "" {
		logger.Named("worker").Debugw("worker_cart_mutation_audit_skip_invalid_payload", "view_id", payload.ViewID, "variant_id", payload.VariantID)
		return nil
	}
	if c.Container == nil || c.AuditService == nil {
		logger.Named("worker").Warnw("worker_cart_mutation_audit_skip_service_nil", "view_id", payload.ViewID)
		return nil
	}
	if err := c.AuditService.Persist(payload); err != nil {
		logger.Named("worker").Warnw("worker_cart_mutation_audit_persist_failed",
			"view_id", payload.ViewID,
			"variant_id", payload.VariantID,
			"request_id", payload.RequestID,
			"error", err,
		)
		return err
	}
	return nil
}
