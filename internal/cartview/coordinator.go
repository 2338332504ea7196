package cartview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/storefront"
)

// ErrMutationRejected 上游拒绝了请求（非库存原因），视图保持不变
var ErrMutationRejected = errors.New("cart mutation rejected")

// NoticeOutOfStock 库存不足提示键
const NoticeOutOfStock = "notice.out_of_stock"

// CartAPI 协调器依赖的上游接口
type CartAPI interface {
	Cart(ctx context.Context) (*storefront.CartPayload, error)
	MutateVariant(ctx context.Context, variantID, action string) (*storefront.VariantPayload, error)
}

// MutationResult 一次行突变的结果
type MutationResult struct {
	VariantID      string    `json:"variant_id"`
	Action         string    `json:"action"`
	Outcome        string    `json:"outcome"`
	QuantityBefore int       `json:"quantity_before"`
	Quantity       int       `json:"quantity"`
	LineRemoved    bool      `json:"line_removed"`
	Line           *LineView `json:"line,omitempty"`
	Notice         string    `json:"notice,omitempty"`
	SummaryStale   bool      `json:"summary_stale"`
	Snapshot       Snapshot  `json:"view"`

	Latency time.Duration `json:"-"`
}

// Coordinator 行突变协调器，是唯一发起购物车写请求的组件
type Coordinator struct {
	api CartAPI
}

// NewCoordinator 创建协调器
func NewCoordinator(api CartAPI) *Coordinator {
	return &Coordinator{api: api}
}

// UpstreamAction 把行操作映射为上游 action
func UpstreamAction(action string) (string, error) {
	switch strings.TrimSpace(action) {
	case constants.CartActionIncrement:
		return constants.UpstreamActionAdd, nil
	case constants.CartActionDecrement:
		return constants.UpstreamActionRemove, nil
	case constants.CartActionRemoveLine:
		return constants.UpstreamActionRemoveAll, nil
	default:
		return "", ErrInvalidAction
	}
}

// Load 全量拉取购物车并替换视图
func (c *Coordinator) Load(ctx context.Context, view *ViewState) error {
	if view.Closed() {
		return ErrViewClosed
	}
	payload, err := c.api.Cart(ctx)
	if err != nil {
		logger.Warnw("cart_view_load_failed", "view_id", view.ID(), "error", err)
		return err
	}
	return view.Load(payload)
}

// Mutate 对一行执行 increment|decrement|remove，每次调用恰好一个上游突变请求，不重试
func (c *Coordinator) Mutate(ctx context.Context, view *ViewState, variantID, action string) (*MutationResult, error) {
	upstreamAction, err := UpstreamAction(action)
	if err != nil {
		return nil, err
	}
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return nil, ErrInvalidVariant
	}
	if view.Closed() {
		return nil, ErrViewClosed
	}

	unlock := view.lockLine(variantID)
	defer unlock()

	started := time.Now()
	result := &MutationResult{VariantID: variantID, Action: action}
	if line, ok := view.Line(variantID); ok {
		result.QuantityBefore = line.Quantity
	}

	payload, err := c.api.MutateVariant(ctx, variantID, upstreamAction)
	if err != nil {
		logger.Warnw("cart_mutation_upstream_failed",
			"view_id", view.ID(),
			"variant_id", variantID,
			"action", action,
			"error", err,
		)
		return nil, err
	}
	if !payload.Success && payload.Error != "" && payload.Error != constants.UpstreamErrorOutOfStock {
		logger.Infow("cart_mutation_rejected",
			"view_id", view.ID(),
			"variant_id", variantID,
			"action", action,
			"reason", payload.Error,
		)
		return nil, fmt.Errorf("%w: %s", ErrMutationRejected, payload.Error)
	}

	needsReload, err := view.applyMutation(variantID, action, payload, result)
	if err != nil {
		return nil, err
	}

	// 汇总始终以购物车集合接口为准；失败只标记为陈旧，不回滚已应用的行
	cart, err := c.api.Cart(ctx)
	if err != nil {
		result.SummaryStale = true
		logger.Warnw("cart_summary_refresh_failed", "view_id", view.ID(), "variant_id", variantID, "error", err)
	} else if err := view.applyRefresh(cart, needsReload); err != nil {
		return nil, err
	}

	result.Snapshot = view.Snapshot()
	if line, ok := view.Line(variantID); ok {
		lineView := RenderLine(line)
		result.Line = &lineView
		result.Quantity = line.Quantity
	}
	result.Latency = time.Since(started)

	logger.Debugw("cart_mutation_applied",
		"view_id", view.ID(),
		"variant_id", variantID,
		"action", action,
		"outcome", result.Outcome,
		"quantity_before", result.QuantityBefore,
		"quantity", result.Quantity,
		"line_removed", result.LineRemoved,
		"summary_stale", result.SummaryStale,
	)
	return result, nil
}

// applyMutation 在视图临界区内应用变体接口响应；返回视图中是否缺少该行需要全量重载
func (v *ViewState) applyMutation(variantID, action string, payload *storefront.VariantPayload, result *MutationResult) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false, ErrViewClosed
	}

	count, _ := intValue(payload.Get("count"))
	if count < 0 {
		count = 0
	}
	result.Quantity = count
	result.Outcome = constants.MutationOutcomeApplied
	if payload.Error == constants.UpstreamErrorOutOfStock {
		result.Outcome = constants.MutationOutcomeRejected
		result.Notice = NoticeOutOfStock
	}

	v.summary = patchSummary(v.summary, payload.Fields)
	v.touchedAt = time.Now()

	idx := v.indexLocked(variantID)
	if idx < 0 {
		v.recomputeLocked()
		return count > 0, nil
	}

	removable := action == constants.CartActionDecrement || action == constants.CartActionRemoveLine
	if count == 0 && removable {
		v.lines = append(v.lines[:idx], v.lines[idx+1:]...)
		result.LineRemoved = true
		v.recomputeLocked()
		return false, nil
	}

	line := &v.lines[idx]
	line.Quantity = count
	line.LineTotal, _ = moneyValue(payload.Get("product_total_price"))
	if payload.Has("stock_count") {
		if stock, ok := numericInt(payload.Get("stock_count")); ok {
			line.Stock = intPtr(stock)
		} else {
			line.Stock = nil
		}
	}
	line.applyVerdict(Evaluate(*line))
	v.recomputeLocked()
	return false, nil
}

// applyRefresh 应用汇总刷新；视图缺行时用同一响应全量重载
func (v *ViewState) applyRefresh(cart *storefront.CartPayload, reload bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	if reload {
		v.loadLocked(cart)
		return nil
	}
	if cart != nil {
		v.summary = Refresh(cart.Cart)
	}
	return nil
}
