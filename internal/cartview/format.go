package cartview

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/lightbike-next/internal/models"

	"github.com/shopspring/decimal"
)

// ru-RU 千分位分隔符（不换行空格）
const groupSeparator = "\u00a0"

// FormatMoney 按 ru-RU 习惯输出两位小数：12 345,50；四位整数不分组（1234,50）
func FormatMoney(m models.Money) string {
	d := m.Decimal.Round(2)
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, fracPart := fixed, "00"
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}
	if len(intPart) >= 5 {
		intPart = groupThousands(intPart)
	}
	out := intPart + "," + fracPart
	if negative && !d.IsZero() {
		return "-" + out
	}
	return out
}

// FormatPrice 汇总区价格：“1 234,00 ₽”
func FormatPrice(m models.Money) string {
	return FormatMoney(m) + " ₽"
}

// FormatLinePrice 行内价格：“1 234,00₽”
func FormatLinePrice(m models.Money) string {
	return FormatMoney(m) + "₽"
}

// FormatQuantity 行内数量：“3 шт.”
func FormatQuantity(n int) string {
	return strconv.Itoa(n) + " шт."
}

// FormatCount 商品件数的俄语复数形式
func FormatCount(n int) string {
	return strconv.Itoa(n) + " " + pluralGoods(n)
}

func pluralGoods(n int) string {
	if n < 0 {
		n = -n
	}
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return "товар"
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return "товара"
	default:
		return "товаров"
	}
}

// ParseMoney 解析页面上已渲染的金额文本，无法解析时返回 0
func ParseMoney(text string) models.Money {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) || r == '₽' {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)
	if cleaned == "" {
		return models.Money{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return models.Money{}
	}
	return models.NewMoneyFromDecimal(d)
}

func groupThousands(digits string) string {
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
