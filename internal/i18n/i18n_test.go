package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMatch(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleRU,
		"ru":                      LocaleRU,
		"en-GB,en;q=0.9":          LocaleEN,
		"de-DE":                   LocaleRU,
		"fr;q=0.9, en;q=0.8":      LocaleEN,
		"ru-RU,ru;q=0.9,en;q=0.8": LocaleRU,
		"@@garbage@@":             LocaleRU,
	}
	for header, want := range cases {
		if got := Match(header); got != want {
			t.Fatalf("Match(%q) = %s, want %s", header, got, want)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?lang=en", nil)
	c.Request.Header.Set("Accept-Language", "ru")
	if got := ResolveLocale(c); got != LocaleEN {
		t.Fatalf("expected en-US, got %s", got)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleEN, "error.order_cancel_failed"); got == "error.order_cancel_failed" {
		t.Fatalf("expected english message")
	}
	if got := T("xx", "error.order_cancel_failed"); got != "Не удалось отменить заказ. Попробуйте позже." {
		t.Fatalf("unexpected fallback: %s", got)
	}
	if got := T(LocaleRU, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("unknown key must be returned as-is, got %s", got)
	}
	if got := Sprintf(LocaleRU, "notice.out_of_stock_with_stock", 3); got != "Доступно только 3 шт." {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[LocaleRU] {
		if _, ok := catalog[LocaleEN][key]; !ok {
			t.Fatalf("en-US missing key %s", key)
		}
	}
	for key := range catalog[LocaleEN] {
		if _, ok := catalog[LocaleRU][key]; !ok {
			t.Fatalf("ru-RU missing key %s", key)
		}
	}
}
