package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lightbike-next/internal/cartview"
	"github.com/lightbike-next/internal/checkout"
	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/queue"
	"github.com/lightbike-next/internal/storefront"
	"github.com/lightbike-next/internal/suggest"

	"github.com/google/uuid"
)

// ViewSession 一个页面加载持有的全部状态
type ViewSession struct {
	State       *cartview.ViewState
	Coordinator *cartview.Coordinator
	Upstream    *storefront.Session
	Delivery    *checkout.Delivery
	Promo       *checkout.PromoState
	Suggest     *suggest.Autocompleter
}

// CreateViewResult 创建视图的结果
type CreateViewResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	View      cartview.Snapshot `json:"view"`
}

// MutateInput 行突变输入
type MutateInput struct {
	ViewID    string
	VariantID string
	Action    string
	RequestID string
}

// ViewService 视图注册表：创建、查找、突变与销毁
type ViewService struct {
	cfg    *config.Config
	client *storefront.Client
	tokens *ViewTokenService
	audit  *AuditService
	ttl    time.Duration

	mu    sync.RWMutex
	views map[string]*ViewSession
}

// NewViewService 创建视图服务
func NewViewService(cfg *config.Config, client *storefront.Client, tokens *ViewTokenService, audit *AuditService) *ViewService {
	return &ViewService{
		cfg:    cfg,
		client: client,
		tokens: tokens,
		audit:  audit,
		ttl:    cfg.View.TTL(),
		views:  map[string]*ViewSession{},
	}
}

// Create 以浏览器 cookie 建立上游会话，加载购物车并注册视图
func (s *ViewService) Create(ctx context.Context, cookies []*http.Cookie) (*CreateViewResult, error) {
	viewID := uuid.NewString()
	upstream := s.client.NewSession(cookies)
	session := &ViewSession{
		State:       cartview.NewViewState(viewID, s.cfg.View.CheckoutHref),
		Coordinator: cartview.NewCoordinator(upstream),
		Upstream:    upstream,
		Delivery:    checkout.NewDelivery(),
		Promo:       &checkout.PromoState{},
		Suggest: suggest.New(upstream.SuggestCities, suggest.Options{
			Debounce: time.Duration(s.cfg.Suggest.DebounceMS) * time.Millisecond,
			Limit:    s.cfg.Suggest.Limit,
			CacheTTL: time.Duration(s.cfg.Suggest.CacheTTLSeconds) * time.Second,
		}),
	}
	if err := session.Coordinator.Load(ctx, session.State); err != nil {
		session.Suggest.Close()
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(viewID)
	if err != nil {
		session.Suggest.Close()
		return nil, err
	}

	s.mu.Lock()
	s.views[viewID] = session
	s.mu.Unlock()

	logger.Infow("cart_view_created", "view_id", viewID, "lines", len(session.State.Snapshot().Lines))
	return &CreateViewResult{
		Token:     token,
		ExpiresAt: expiresAt,
		View:      session.State.Snapshot(),
	}, nil
}

// Authorize 校验令牌并返回视图 ID
func (s *ViewService) Authorize(token string) (string, error) {
	return s.tokens.Parse(token)
}

// Get 获取视图会话并刷新活跃时间
func (s *ViewService) Get(viewID string) (*ViewSession, error) {
	s.mu.RLock()
	session, ok := s.views[strings.TrimSpace(viewID)]
	s.mu.RUnlock()
	if !ok || session.State.Closed() {
		return nil, ErrViewNotFound
	}
	session.State.Touch()
	return session, nil
}

// Snapshot 当前视图渲染结果
func (s *ViewService) Snapshot(viewID string) (cartview.Snapshot, error) {
	session, err := s.Get(viewID)
	if err != nil {
		return cartview.Snapshot{}, err
	}
	return session.State.Snapshot(), nil
}

// Reload 重新拉取上游购物车
func (s *ViewService) Reload(ctx context.Context, viewID string) (cartview.Snapshot, error) {
	session, err := s.Get(viewID)
	if err != nil {
		return cartview.Snapshot{}, err
	}
	if err := session.Coordinator.Load(ctx, session.State); err != nil {
		return cartview.Snapshot{}, err
	}
	return session.State.Snapshot(), nil
}

// Mutate 执行一次行突变并记录审计
func (s *ViewService) Mutate(ctx context.Context, input MutateInput) (*cartview.MutationResult, error) {
	session, err := s.Get(input.ViewID)
	if err != nil {
		return nil, err
	}
	requestID := strings.TrimSpace(input.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	started := time.Now()
	before := 0
	if line, ok := session.State.Line(strings.TrimSpace(input.VariantID)); ok {
		before = line.Quantity
	}

	result, err := session.Coordinator.Mutate(ctx, session.State, input.VariantID, input.Action)
	if errors.Is(err, cartview.ErrInvalidAction) || errors.Is(err, cartview.ErrInvalidVariant) {
		return nil, err
	}

	payload := queue.CartMutationAuditPayload{
		ViewID:     session.State.ID(),
		RequestID:  requestID,
		VariantID:  strings.TrimSpace(input.VariantID),
		Action:     strings.TrimSpace(input.Action),
		OccurredAt: time.Now(),
	}
	switch {
	case err == nil:
		payload.Outcome = result.Outcome
		payload.QuantityBefore = result.QuantityBefore
		payload.QuantityAfter = result.Quantity
		payload.LineRemoved = result.LineRemoved
		payload.CartTotal = result.Snapshot.Summary.TotalPrice.String()
		payload.LatencyMS = result.Latency.Milliseconds()
		if result.Notice != "" {
			payload.Reason = constants.UpstreamErrorOutOfStock
		}
	case errors.Is(err, cartview.ErrMutationRejected):
		payload.Outcome = constants.MutationOutcomeRejected
		payload.Reason = strings.TrimPrefix(err.Error(), cartview.ErrMutationRejected.Error()+": ")
		payload.QuantityBefore = before
		payload.QuantityAfter = before
		payload.LatencyMS = time.Since(started).Milliseconds()
	default:
		payload.Outcome = constants.MutationOutcomeFailed
		payload.Reason = err.Error()
		payload.QuantityBefore = before
		payload.QuantityAfter = before
		payload.LatencyMS = time.Since(started).Milliseconds()
	}
	s.audit.Record(payload)
	return result, err
}

// ActivateCheckout 点击结算入口，禁用时返回 false
func (s *ViewService) ActivateCheckout(viewID string) (string, bool, error) {
	session, err := s.Get(viewID)
	if err != nil {
		return "", false, err
	}
	return session.State.ActivateCheckout()
}

// Teardown 销毁视图，之后的请求一律 ErrViewNotFound
func (s *ViewService) Teardown(viewID string) bool {
	s.mu.Lock()
	session, ok := s.views[strings.TrimSpace(viewID)]
	if ok {
		delete(s.views, strings.TrimSpace(viewID))
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	session.State.Close()
	session.Suggest.Close()
	logger.Debugw("cart_view_teardown", "view_id", viewID)
	return true
}

// SweepIdle 销毁空闲超过 TTL 的视图，返回数量
func (s *ViewService) SweepIdle(now time.Time) int {
	s.mu.RLock()
	expired := make([]string, 0)
	for id, session := range s.views {
		if now.Sub(session.State.IdleSince()) > s.ttl {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	count := 0
	for _, id := range expired {
		if s.Teardown(id) {
			count++
		}
	}
	if count > 0 {
		logger.Infow("cart_view_sweep", "expired", count, "active", s.Count())
	}
	return count
}

// Count 当前活跃视图数量
func (s *ViewService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// CloseAll 关闭全部视图（进程退出时）
func (s *ViewService) CloseAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.views))
	for id := range s.views {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	for _, id := range ids {
		s.Teardown(id)
	}
}
