package cartview

// 汇总字段
const (
	summaryTotalPriceKey    = "cart_total_price"
	summarySubtotalPriceKey = "cart_subtotal_price"
	summaryTotalCountKey    = "cart_total_count"
)

// SummaryView 汇总区文本
type SummaryView struct {
	TotalPriceText    string `json:"total_price_text"`
	SubtotalPriceText string `json:"subtotal_price_text"`
	TotalCountText    string `json:"total_count_text"`
}

// Refresh 从上游汇总对象构建 CartSummary，缺失或格式错误的字段按 0 处理
func Refresh(raw map[string]interface{}) CartSummary {
	summary := CartSummary{}
	if raw == nil {
		return summary
	}
	if m, ok := moneyValue(raw[summaryTotalPriceKey]); ok {
		summary.TotalPrice = m
	}
	if m, ok := moneyValue(raw[summarySubtotalPriceKey]); ok {
		summary.SubtotalPrice = m
	}
	if n, ok := intValue(raw[summaryTotalCountKey]); ok {
		summary.TotalCount = n
	}
	return summary
}

// patchSummary 用变体接口响应中的聚合字段覆盖汇总（仅覆盖出现的字段）
func patchSummary(summary CartSummary, fields map[string]interface{}) CartSummary {
	if m, ok := moneyValue(fields[summaryTotalPriceKey]); ok {
		summary.TotalPrice = m
	}
	if n, ok := intValue(fields[summaryTotalCountKey]); ok {
		summary.TotalCount = n
	}
	return summary
}

// RenderSummary 渲染汇总文本
func RenderSummary(summary CartSummary) SummaryView {
	return SummaryView{
		TotalPriceText:    FormatPrice(summary.TotalPrice),
		SubtotalPriceText: FormatPrice(summary.SubtotalPrice),
		TotalCountText:    FormatCount(summary.TotalCount),
	}
}
