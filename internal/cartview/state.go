package cartview

import (
	"errors"
	"sync"
	"time"

	"github.com/lightbike-next/internal/storefront"
)

var (
	ErrViewClosed     = errors.New("cart view closed")
	ErrInvalidAction  = errors.New("cart line action invalid")
	ErrInvalidVariant = errors.New("cart line variant invalid")
)

// ViewState 一次页面加载对应的购物车视图状态，显式构造、显式销毁
type ViewState struct {
	id string

	mu        sync.Mutex
	lines     []CartLine
	summary   CartSummary
	gate      GateState
	action    *CheckoutAction
	loaded    bool
	closed    bool
	createdAt time.Time
	touchedAt time.Time

	lockMu    sync.Mutex
	lineLocks map[string]*lineLock
}

type lineLock struct {
	mu   sync.Mutex
	refs int
}

// Snapshot 视图的完整渲染结果
type Snapshot struct {
	ViewID      string             `json:"view_id"`
	Lines       []LineView         `json:"lines"`
	Empty       bool               `json:"empty"`
	Placeholder *Placeholder       `json:"placeholder,omitempty"`
	Summary     CartSummary        `json:"summary"`
	SummaryView SummaryView        `json:"summary_view"`
	Gate        GateState          `json:"gate"`
	Checkout    CheckoutActionView `json:"checkout"`
}

// NewViewState 创建视图状态，checkoutHref 为结算入口原始地址
func NewViewState(id, checkoutHref string) *ViewState {
	now := time.Now()
	v := &ViewState{
		id:        id,
		action:    NewCheckoutAction(checkoutHref),
		createdAt: now,
		touchedAt: now,
		lineLocks: map[string]*lineLock{},
	}
	v.gate = Recompute(nil)
	v.action.Apply(v.gate)
	return v
}

// ID 视图标识
func (v *ViewState) ID() string {
	return v.id
}

// Load 用购物车集合接口的完整响应替换视图
func (v *ViewState) Load(payload *storefront.CartPayload) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	v.loadLocked(payload)
	return nil
}

func (v *ViewState) loadLocked(payload *storefront.CartPayload) {
	lines := make([]CartLine, 0)
	var cart map[string]interface{}
	if payload != nil {
		seen := make(map[string]struct{}, len(payload.Items))
		for _, item := range payload.Items {
			line := Normalize(item)
			if line.VariantID == "" {
				continue
			}
			if _, dup := seen[line.VariantID]; dup {
				continue
			}
			seen[line.VariantID] = struct{}{}
			lines = append(lines, line)
		}
		cart = payload.Cart
	}
	v.lines = lines
	v.summary = Refresh(cart)
	v.loaded = true
	v.recomputeLocked()
	v.touchedAt = time.Now()
}

// Close 销毁视图，之后的操作返回 ErrViewClosed
func (v *ViewState) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.lines = nil
}

// Closed 视图是否已销毁
func (v *ViewState) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Touch 刷新最近访问时间
func (v *ViewState) Touch() {
	v.mu.Lock()
	v.touchedAt = time.Now()
	v.mu.Unlock()
}

// IdleSince 最近访问时间
func (v *ViewState) IdleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.touchedAt
}

// Line 按变体读取行
func (v *ViewState) Line(variantID string) (CartLine, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.indexLocked(variantID)
	if idx < 0 {
		return CartLine{}, false
	}
	return v.lines[idx], true
}

// Summary 当前汇总
func (v *ViewState) Summary() CartSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

// Gate 当前门禁状态
func (v *ViewState) Gate() GateState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gate
}

// ActivateCheckout 点击结算入口
func (v *ViewState) ActivateCheckout() (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return "", false, ErrViewClosed
	}
	href, ok := v.action.Activate()
	return href, ok, nil
}

// Snapshot 渲染当前视图
func (v *ViewState) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *ViewState) snapshotLocked() Snapshot {
	snap := Snapshot{
		ViewID:      v.id,
		Lines:       make([]LineView, 0, len(v.lines)),
		Empty:       len(v.lines) == 0,
		Summary:     v.summary,
		SummaryView: RenderSummary(v.summary),
		Gate:        v.gate,
		Checkout:    v.action.View(),
	}
	for _, line := range v.lines {
		snap.Lines = append(snap.Lines, RenderLine(line))
	}
	if snap.Empty {
		placeholder := EmptyCartPlaceholder
		snap.Placeholder = &placeholder
	}
	return snap
}

func (v *ViewState) indexLocked(variantID string) int {
	for i := range v.lines {
		if v.lines[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

func (v *ViewState) recomputeLocked() {
	v.gate = Recompute(v.lines)
	v.action.Apply(v.gate)
}

// lockLine 同一行的突变串行执行，不同行互不阻塞
func (v *ViewState) lockLine(variantID string) func() {
	v.lockMu.Lock()
	l, ok := v.lineLocks[variantID]
	if !ok {
		l = &lineLock{}
		v.lineLocks[variantID] = l
	}
	l.refs++
	v.lockMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		v.lockMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(v.lineLocks, variantID)
		}
		v.lockMu.Unlock()
	}
}
