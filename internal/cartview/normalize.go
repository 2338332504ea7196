package cartview

import (
	"math"
	"strconv"
	"strings"

	"github.com/lightbike-next/internal/models"

	"github.com/shopspring/decimal"
)

// 字段回退表：按顺序取第一个非空值。来源对象优先取 variant，其次 product
var (
	sourceKeys    = []string{"variant", "product"}
	variantIDKeys = []string{"variant_id", "id"}
	nameKeys      = []string{"display_name", "name", "title"}
	imageKeys     = []string{"main_image_url", "imageURL", "image_url"}
	urlKeys       = []string{"variant_url", "product_url", "url"}
	quantityKeys  = []string{"quantity", "count"}
	lineTotalKeys = []string{"product_total_price", "line_total"}
)

const defaultLineURL = "#"

// Normalize 把上游多种形态的购物车条目归一化为 CartLine，不会失败
func Normalize(raw map[string]interface{}) CartLine {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	source := sourceObject(raw)
	lookup := []map[string]interface{}{source, raw}

	line := CartLine{
		VariantID: firstID(source, raw),
		Name:      firstString(lookup, nameKeys...),
		ImageURL:  firstString(lookup, imageKeys...),
		URL:       firstString(lookup, urlKeys...),
		Slug:      firstString(lookup, "slug"),
		Quantity:  firstInt(raw, quantityKeys...),
		Stock:     stockOf(raw, source),
		LineTotal: firstMoney(raw, lineTotalKeys...),
	}
	if line.URL == "" {
		line.URL = defaultLineURL
	}
	if price, ok := moneyValue(raw["unit_price"]); ok {
		line.UnitPrice = price
	} else if price, ok := moneyValue(source["price"]); ok {
		line.UnitPrice = price
	}
	line.applyVerdict(Evaluate(line))
	return line
}

func sourceObject(raw map[string]interface{}) map[string]interface{} {
	for _, key := range sourceKeys {
		if obj, ok := raw[key].(map[string]interface{}); ok && obj != nil {
			return obj
		}
	}
	return map[string]interface{}{}
}

func firstID(source, raw map[string]interface{}) string {
	if id := scalarString(source["id"]); id != "" {
		return id
	}
	for _, key := range variantIDKeys {
		if id := scalarString(raw[key]); id != "" {
			return id
		}
	}
	return ""
}

func firstString(objects []map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		for _, obj := range objects {
			if s := scalarString(obj[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(obj map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		if n, ok := intValue(obj[key]); ok {
			return n
		}
	}
	return 0
}

func firstMoney(obj map[string]interface{}, keys ...string) models.Money {
	for _, key := range keys {
		if m, ok := moneyValue(obj[key]); ok {
			return m
		}
	}
	return models.Money{}
}

// stockOf 库存只接受数字：条目上的 stock_count 优先，其次来源对象的 inventory
func stockOf(raw, source map[string]interface{}) *int {
	if n, ok := numericInt(raw["stock_count"]); ok {
		return intPtr(n)
	}
	if n, ok := numericInt(source["inventory"]); ok {
		return intPtr(n)
	}
	return nil
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// maxExactInt float64 能精确表示的最大整数
const maxExactInt = 1 << 53

// numericInt 仅接受 JSON 数字；小数、溢出与非有限值视为缺失
func numericInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		return integralFloat(v)
	case int:
		return v, true
	case int64:
		if v > maxExactInt || v < -maxExactInt {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func integralFloat(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v > maxExactInt || v < -maxExactInt {
		return 0, false
	}
	return int(v), true
}

// intValue 接受数字或整数字符串（"3"、"3.0"）
func intValue(value interface{}) (int, bool) {
	if n, ok := numericInt(value); ok {
		return n, true
	}
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			if int64(n) > maxExactInt || int64(n) < -maxExactInt {
				return 0, false
			}
			return n, true
		}
		if d, err := decimal.NewFromString(s); err == nil && d.IsInteger() {
			if f, exact := d.Float64(); exact {
				return integralFloat(f)
			}
		}
	}
	return 0, false
}

// moneyValue 接受数字或数字字符串
func moneyValue(value interface{}) (models.Money, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.Money{}, false
		}
		return models.NewMoneyFromFloat(v), true
	case int:
		return models.NewMoneyFromInt(int64(v)), true
	case int64:
		return models.NewMoneyFromInt(v), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return models.Money{}, false
		}
		return models.NewMoneyFromDecimal(d), true
	default:
		return models.Money{}, false
	}
}
