package queue

import (
	"encoding/json"
	"time"

	"github.com/lightbike-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartMutationAudit 购物车突变审计任务
	TaskCartMutationAudit = constants.TaskCartMutationAudit
)

// CartMutationAuditPayload 购物车突变审计任务载荷
type CartMutationAuditPayload struct {
	ViewID         string    `json:"view_id"`
	RequestID      string    `json:"request_id"`
	VariantID      string    `json:"variant_id"`
	Action         string    `json:"action"`
	Outcome        string    `json:"outcome"`
	Reason         string    `json:"reason"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	LineRemoved    bool      `json:"line_removed"`
	CartTotal      string    `json:"cart_total"`
	LatencyMS      int64     `json:"latency_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewCartMutationAuditTask 创建购物车突变审计任务
func NewCartMutationAuditTask(payload CartMutationAuditPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartMutationAudit, body), nil
}

// ParseCartMutationAuditPayload 解析审计任务载荷
func ParseCartMutationAuditPayload(task *asynq.Task) (CartMutationAuditPayload, error) {
	var payload CartMutationAuditPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
