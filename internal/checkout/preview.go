package checkout

import (
	"github.com/lightbike-next/internal/cartview"
	"github.com/lightbike-next/internal/models"
)

// 运费未知时的占位
const shippingUnknown = "—"

// PreviewResult 结算页价格预览
type PreviewResult struct {
	Subtotal     models.Money  `json:"subtotal"`
	Discount     models.Money  `json:"discount"`
	Shipping     *models.Money `json:"shipping"`
	Total        models.Money  `json:"total"`
	ShippingText string        `json:"shipping_text"`
	TotalText    string        `json:"total_text"`
}

// Preview 由页面已渲染的文本计算合计：subtotal - |discount| + shipping。
// 折扣字段缺失视为 0，运费未知按 0 计入
func Preview(subtotalText string, discountText *string, shipping *models.Money) PreviewResult {
	result := PreviewResult{
		Subtotal:     cartview.ParseMoney(subtotalText),
		ShippingText: ShippingText(shipping),
	}
	if discountText != nil {
		result.Discount = cartview.ParseMoney(*discountText)
	}
	total := result.Subtotal.Sub(result.Discount.Abs())
	if shipping != nil {
		value := *shipping
		result.Shipping = &value
		total = total.Add(value)
	}
	result.Total = total
	result.TotalText = cartview.FormatPrice(total)
	return result
}

// ShippingText 运费文本，未知时为破折号
func ShippingText(shipping *models.Money) string {
	if shipping == nil {
		return shippingUnknown
	}
	return cartview.FormatPrice(*shipping)
}
