package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/storefront"
)

const (
	orderSectionActive  = "active"
	orderSectionHistory = "history"
)

// OrderCard 个人中心订单卡片的渲染状态
type OrderCard struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	Badge      string `json:"badge"`
	BadgeClass string `json:"badge_class"`
	Cancelable bool   `json:"cancelable"`
	Section    string `json:"section"`
	Message    string `json:"message,omitempty"`
}

// OrderStatusResult 订单状态轮询结果
type OrderStatusResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Final   bool   `json:"final"`
}

// OrderService 订单取消与状态轮询
type OrderService struct {
	client       *storefront.Client
	pollInterval time.Duration
	waitTimeout  time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(cfg config.CheckoutConfig, client *storefront.Client) *OrderService {
	interval := time.Duration(cfg.OrderPollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 3 * time.Second
	}
	timeout := time.Duration(cfg.OrderWaitTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &OrderService{client: client, pollInterval: interval, waitTimeout: timeout}
}

// BuildOrderCard 按订单状态生成卡片
func BuildOrderCard(orderID, status string) OrderCard {
	card := OrderCard{OrderID: orderID, Status: status, Section: orderSectionActive}
	switch status {
	case constants.OrderStatusCanceled:
		card.Badge = "Отменён"
		card.BadgeClass = "badge--danger"
		card.Section = orderSectionHistory
	case constants.OrderStatusPaid:
		card.Badge = "Оплачен"
		card.BadgeClass = "badge--ok"
	default:
		card.Badge = "Создан"
		card.BadgeClass = "badge--ok"
		card.Cancelable = true
	}
	return card
}

// IsFinalOrderStatus 轮询的终止状态
func IsFinalOrderStatus(status string) bool {
	return status == constants.OrderStatusPaid || status == constants.OrderStatusCanceled
}

// Cancel 取消订单；成功后卡片移入历史区，徽标为“已取消”，取消按钮移除
func (s *OrderService) Cancel(ctx context.Context, cookies []*http.Cookie, orderID string) (*OrderCard, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	result, err := s.client.NewSession(cookies).CancelOrder(ctx, orderID)
	if err != nil {
		logger.Warnw("order_cancel_failed", "order_id", orderID, "error", err)
		if errors.Is(err, storefront.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Join(ErrOrderCancelFailed, err)
	}
	card := BuildOrderCard(orderID, constants.OrderStatusCanceled)
	card.Message = strings.TrimSpace(result.Message)
	logger.Infow("order_canceled", "order_id", orderID)
	return &card, nil
}

// Status 查询一次订单状态
func (s *OrderService) Status(ctx context.Context, cookies []*http.Cookie, orderID string) (*OrderStatusResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	status, err := s.client.NewSession(cookies).OrderStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, storefront.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &OrderStatusResult{OrderID: orderID, Status: status, Final: IsFinalOrderStatus(status)}, nil
}

// WaitForFinal 轮询订单状态直到 paid/canceled 或超时。上一次请求结束后才发起下一次；
// 单次失败继续轮询，超时返回最后一次状态与 ErrOrderWaitTimeout
func (s *OrderService) WaitForFinal(ctx context.Context, cookies []*http.Cookie, orderID string) (*OrderStatusResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.waitTimeout)
	defer cancel()

	upstream := s.client.NewSession(cookies)
	last := &OrderStatusResult{OrderID: orderID}
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return last, ErrOrderWaitTimeout
		case <-timer.C:
		}
		status, err := upstream.OrderStatus(ctx, orderID)
		switch {
		case errors.Is(err, storefront.ErrNotFound):
			return nil, ErrOrderNotFound
		case err != nil:
			logger.Debugw("order_status_poll_failed", "order_id", orderID, "error", err)
		default:
			last = &OrderStatusResult{OrderID: orderID, Status: status, Final: IsFinalOrderStatus(status)}
			if last.Final {
				return last, nil
			}
		}
		timer.Reset(s.pollInterval)
	}
}
