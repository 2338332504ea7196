package checkout

import (
	"strings"
	"sync"

	"github.com/lightbike-next/internal/models"
)

// Promo 已应用的促销码
type Promo struct {
	Code     string       `json:"code"`
	Discount models.Money `json:"discount"`
}

// PromoState 视图上的促销码，零值可用
type PromoState struct {
	mu      sync.RWMutex
	current *Promo
}

// Set 记录上游确认的促销码
func (p *PromoState) Set(promo Promo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = &promo
}

// Clear 撤销促销码
func (p *PromoState) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}

// Current 当前促销码
func (p *PromoState) Current() (Promo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return Promo{}, false
	}
	return *p.current, true
}

// DiscountText 预览用的折扣文本；未应用时为 nil
func (p *PromoState) DiscountText() *string {
	promo, ok := p.Current()
	if !ok {
		return nil
	}
	text := promo.Discount.String()
	return &text
}

// NormalizePromoCode 去掉空白并转大写
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
