package cartview

import "github.com/lightbike-next/internal/models"

// CartLine 购物车中的一行（一个变体）
type CartLine struct {
	VariantID        string       `json:"variant_id"`
	Name             string       `json:"name"`
	ImageURL         string       `json:"image_url"`
	URL              string       `json:"url"`
	Slug             string       `json:"slug"`
	Quantity         int          `json:"quantity"`
	Stock            *int         `json:"stock"`
	UnitPrice        models.Money `json:"unit_price"`
	LineTotal        models.Money `json:"line_total"`
	HasError         bool         `json:"has_error"`
	IncrementAllowed bool         `json:"increment_allowed"`
}

// CartSummary 购物车汇总，完全来自上游
type CartSummary struct {
	TotalPrice    models.Money `json:"total_price"`
	SubtotalPrice models.Money `json:"subtotal_price"`
	TotalCount    int          `json:"total_count"`
}

// GateState 结算入口的派生状态
type GateState struct {
	Blocked bool `json:"blocked"`
	Empty   bool `json:"empty"`
}

// Disabled 任一行超库存或购物车为空时禁止结算
func (g GateState) Disabled() bool {
	return g.Blocked || g.Empty
}

// Placeholder 空购物车占位内容
type Placeholder struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// EmptyCartPlaceholder 标准空购物车占位
var EmptyCartPlaceholder = Placeholder{
	Title: "Корзина пуста",
	Text:  "Добавьте товары из каталога",
}

func intPtr(v int) *int {
	return &v
}
