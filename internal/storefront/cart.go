package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// CartPayload 购物车集合接口的响应，条目保持原始结构交给视图层归一化
type CartPayload struct {
	Items []map[string]interface{} `json:"items"`
	Cart  map[string]interface{}   `json:"cart"`
}

// VariantPayload 变体增减接口的响应
type VariantPayload struct {
	Success bool
	Error   string
	Fields  map[string]interface{}
}

// Has 字段是否出现在响应中（包括显式 null）
func (p *VariantPayload) Has(key string) bool {
	if p == nil || p.Fields == nil {
		return false
	}
	_, ok := p.Fields[key]
	return ok
}

// Get 读取原始字段
func (p *VariantPayload) Get(key string) interface{} {
	if p == nil || p.Fields == nil {
		return nil
	}
	return p.Fields[key]
}

// Cart 拉取购物车全部条目与汇总
func (s *Session) Cart(ctx context.Context) (*CartPayload, error) {
	var payload CartPayload
	if _, err := s.do(ctx, request{method: http.MethodGet, path: s.client.endpoints.Cart}, &payload); err != nil {
		return nil, err
	}
	if payload.Cart == nil {
		payload.Cart = map[string]interface{}{}
	}
	return &payload, nil
}

// MutateVariant 调用变体接口，action 取 add|remove|remove_all
func (s *Session) MutateVariant(ctx context.Context, variantID, action string) (*VariantPayload, error) {
	query := url.Values{}
	query.Set("variant_id", variantID)
	query.Set("action", action)

	fields := map[string]interface{}{}
	if _, err := s.do(ctx, request{method: http.MethodGet, path: s.client.endpoints.Variant, query: query}, &fields); err != nil {
		return nil, err
	}
	payload := &VariantPayload{Fields: fields}
	if success, ok := fields["success"].(bool); ok {
		payload.Success = success
	}
	if errCode, ok := fields["error"].(string); ok {
		payload.Error = strings.TrimSpace(errCode)
	}
	return payload, nil
}
