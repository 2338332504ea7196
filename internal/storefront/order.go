package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// CancelResult 取消订单响应
type CancelResult struct {
	Message string `json:"message"`
}

// CancelOrder 取消订单（表单 POST，携带 CSRF）
func (s *Session) CancelOrder(ctx context.Context, orderID string) (*CancelResult, error) {
	form := url.Values{}
	form.Set("order_id", orderID)
	var result CancelResult
	if _, err := s.do(ctx, request{method: http.MethodPost, path: s.client.endpoints.OrderCancel, form: form}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OrderStatus 查询订单状态
func (s *Session) OrderStatus(ctx context.Context, orderID string) (string, error) {
	path := strings.ReplaceAll(s.client.endpoints.OrderStatus, "{id}", url.PathEscape(orderID))
	var result struct {
		Status string `json:"status"`
	}
	if _, err := s.do(ctx, request{method: http.MethodGet, path: path}, &result); err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Status), nil
}
