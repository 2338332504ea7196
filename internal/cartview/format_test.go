package cartview

import (
	"testing"

	"github.com/lightbike-next/internal/models"
)

func TestFormatMoneyGrouping(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "0,00"},
		{5, "5,00"},
		{1234.5, "1234,50"},
		{12345.5, "12\u00a0345,50"},
		{1234567, "1\u00a0234\u00a0567,00"},
		{-150, "-150,00"},
	}
	for _, tc := range cases {
		if got := FormatMoney(models.NewMoneyFromFloat(tc.amount)); got != tc.want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatPriceSuffixes(t *testing.T) {
	m := models.NewMoneyFromInt(900)
	if got := FormatPrice(m); got != "900,00 ₽" {
		t.Fatalf("unexpected price text: %q", got)
	}
	if got := FormatLinePrice(m); got != "900,00₽" {
		t.Fatalf("unexpected line price text: %q", got)
	}
	if got := FormatQuantity(4); got != "4 шт." {
		t.Fatalf("unexpected quantity text: %q", got)
	}
}

func TestFormatCountPlurals(t *testing.T) {
	cases := map[int]string{
		0:   "0 товаров",
		1:   "1 товар",
		2:   "2 товара",
		4:   "4 товара",
		5:   "5 товаров",
		11:  "11 товаров",
		12:  "12 товаров",
		21:  "21 товар",
		22:  "22 товара",
		111: "111 товаров",
		114: "114 товаров",
	}
	for n, want := range cases {
		if got := FormatCount(n); got != want {
			t.Fatalf("FormatCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"1 234,50 ₽", "1234.5"},
		{"12 345,00₽", "12345"},
		{"-100,00 ₽", "-100"},
		{"—", "0"},
		{"", "0"},
		{"abc", "0"},
	}
	for _, tc := range cases {
		got := ParseMoney(tc.text)
		if got.Decimal.String() != tc.want {
			t.Fatalf("ParseMoney(%q) = %s, want %s", tc.text, got.Decimal.String(), tc.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	m := models.NewMoneyFromFloat(98765.43)
	if got := ParseMoney(FormatPrice(m)); !got.Equal(m.Decimal) {
		t.Fatalf("round trip mismatch: %s vs %s", got, m)
	}
}
