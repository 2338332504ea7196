package cartview

import "testing"

func TestEvaluateStockGuard(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int
		stock     *int
		hasError  bool
		increment bool
	}{
		{"unknown stock", 50, nil, false, true},
		{"below stock", 3, intPtr(5), false, true},
		{"at stock", 5, intPtr(5), false, false},
		{"overshoot", 6, intPtr(5), true, false},
		{"zero stock", 0, intPtr(0), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(CartLine{Quantity: tc.quantity, Stock: tc.stock})
			if got.HasError != tc.hasError || got.IncrementAllowed != tc.increment {
				t.Fatalf("unexpected verdict: %#v", got)
			}
		})
	}
}

func TestRecomputeGate(t *testing.T) {
	if gate := Recompute(nil); !gate.Empty || gate.Blocked || !gate.Disabled() {
		t.Fatalf("empty cart must be disabled: %#v", gate)
	}
	ok := CartLine{VariantID: "1", Quantity: 1}
	bad := CartLine{VariantID: "2", Quantity: 6, Stock: intPtr(5), HasError: true}
	if gate := Recompute([]CartLine{ok}); gate.Disabled() {
		t.Fatalf("valid cart must be enabled: %#v", gate)
	}
	gate := Recompute([]CartLine{ok, bad})
	if !gate.Blocked || gate.Empty || !gate.Disabled() {
		t.Fatalf("overshoot must block: %#v", gate)
	}
}

func TestCheckoutActionToggle(t *testing.T) {
	action := NewCheckoutAction("/cart/checkout/")
	if _, ok := action.Activate(); ok {
		t.Fatalf("new action must start disabled")
	}

	action.Apply(GateState{})
	view := action.View()
	if view.Label != CheckoutLabelProceed || view.Href != "/cart/checkout/" || view.AriaDisabled {
		t.Fatalf("unexpected enabled view: %#v", view)
	}
	if href, ok := action.Activate(); !ok || href != "/cart/checkout/" {
		t.Fatalf("enabled action must navigate, got %q %v", href, ok)
	}

	action.Apply(GateState{Blocked: true})
	view = action.View()
	if view.Label != CheckoutLabelBlocked || view.Href != "" || !view.AriaDisabled || view.DataHref != "/cart/checkout/" {
		t.Fatalf("unexpected disabled view: %#v", view)
	}
	if view.Classes[len(view.Classes)-1] != CheckoutDisabledCls {
		t.Fatalf("expected disabled class, got %v", view.Classes)
	}
	if href, ok := action.Activate(); ok || href != "" {
		t.Fatalf("disabled action must not navigate")
	}

	action.Apply(GateState{})
	if href, ok := action.Activate(); !ok || href != "/cart/checkout/" {
		t.Fatalf("original href must be restored, got %q", href)
	}
}

func TestRenderLineChips(t *testing.T) {
	line := Normalize(map[string]interface{}{
		"variant":             map[string]interface{}{"id": float64(1), "name": "Цепь", "slug": "chain-9"},
		"quantity":            float64(6),
		"stock_count":         float64(5),
		"unit_price":          float64(1500),
		"product_total_price": float64(9000),
	})
	view := RenderLine(line)
	want := []string{"арт. chain-9", "В наличии", "Остаток: 5", "1500,00₽/шт."}
	if len(view.Chips) != len(want) {
		t.Fatalf("unexpected chips: %v", view.Chips)
	}
	for i := range want {
		if view.Chips[i] != want[i] {
			t.Fatalf("chip %d = %q, want %q", i, view.Chips[i], want[i])
		}
	}
	if view.StockAttr != "5" || view.QuantityText != "6 шт." || view.TotalText != "9000,00₽" {
		t.Fatalf("unexpected texts: %#v", view)
	}
	if view.Classes[len(view.Classes)-1] != "cart-item--error" || view.IncrementEnabled {
		t.Fatalf("overshoot line must render error state: %#v", view)
	}
}
