package storefront

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PromoResult 促销码接口的响应；Success=false 以结果返回而非错误
type PromoResult struct {
	Success  bool
	Code     string
	Discount string
	Error    string
}

// ApplyPromo 提交促销码，上游校验有效期、最低金额与使用次数
func (s *Session) ApplyPromo(ctx context.Context, code string) (*PromoResult, error) {
	form := url.Values{}
	form.Set("promo_code", code)
	return s.promo(ctx, s.client.endpoints.PromoApply, form)
}

// RemovePromo 撤销购物车上的促销码
func (s *Session) RemovePromo(ctx context.Context) (*PromoResult, error) {
	return s.promo(ctx, s.client.endpoints.PromoRemove, url.Values{})
}

func (s *Session) promo(ctx context.Context, path string, form url.Values) (*PromoResult, error) {
	fields := map[string]interface{}{}
	if _, err := s.do(ctx, request{method: http.MethodPost, path: path, form: form}, &fields); err != nil {
		return nil, err
	}
	result := &PromoResult{}
	result.Success, _ = fields["success"].(bool)
	if code, ok := fields["code"].(string); ok {
		result.Code = strings.TrimSpace(code)
	}
	if errCode, ok := fields["error"].(string); ok {
		result.Error = strings.TrimSpace(errCode)
	}
	switch v := fields["discount"].(type) {
	case string:
		result.Discount = strings.TrimSpace(v)
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			result.Discount = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return result, nil
}
