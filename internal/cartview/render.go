package cartview

import (
	"strconv"
)

const (
	lineClass      = "cart-item"
	lineErrorClass = "cart-item--error"
	defaultName    = "Товар"
)

// LineView 单行渲染结果
type LineView struct {
	VariantID        string   `json:"variant_id"`
	Name             string   `json:"name"`
	URL              string   `json:"url"`
	ImageURL         string   `json:"image_url,omitempty"`
	Classes          []string `json:"classes"`
	Chips            []string `json:"chips"`
	Quantity         int      `json:"quantity"`
	QuantityText     string   `json:"quantity_text"`
	TotalText        string   `json:"total_text"`
	StockAttr        string   `json:"stock_attr"`
	IncrementEnabled bool     `json:"increment_enabled"`
	HasError         bool     `json:"has_error"`
}

// RenderLine 渲染单行：标签、数量、行合计与控件状态
func RenderLine(line CartLine) LineView {
	name := line.Name
	if name == "" {
		name = defaultName
	}
	view := LineView{
		VariantID:        line.VariantID,
		Name:             name,
		URL:              line.URL,
		ImageURL:         line.ImageURL,
		Classes:          []string{lineClass},
		Chips:            lineChips(line),
		Quantity:         line.Quantity,
		QuantityText:     FormatQuantity(line.Quantity),
		TotalText:        FormatLinePrice(line.LineTotal),
		IncrementEnabled: line.IncrementAllowed,
		HasError:         line.HasError,
	}
	if line.Stock != nil {
		view.StockAttr = strconv.Itoa(*line.Stock)
	}
	if line.HasError {
		view.Classes = append(view.Classes, lineErrorClass)
	}
	return view
}

func lineChips(line CartLine) []string {
	chips := make([]string, 0, 4)
	if line.Slug != "" {
		chips = append(chips, "арт. "+line.Slug)
	}
	if line.Stock != nil && *line.Stock > 0 {
		chips = append(chips, "В наличии")
	} else {
		chips = append(chips, "Нет в наличии")
	}
	if line.Stock != nil {
		chips = append(chips, "Остаток: "+strconv.Itoa(*line.Stock))
	}
	if !line.UnitPrice.IsZero() {
		chips = append(chips, FormatLinePrice(line.UnitPrice)+"/шт.")
	}
	return chips
}
