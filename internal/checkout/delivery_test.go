package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/models"
	"github.com/lightbike-next/internal/storefront"
)

type priceFunc func(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error)

func (f priceFunc) PickupPrice(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error) {
	return f(ctx, pvzCode, toCityCode)
}

func price(v float64) *float64 {
	return &v
}

func TestSelectGroupTogglesRequiredFields(t *testing.T) {
	d := NewDelivery()
	view, err := d.SelectGroup(constants.DeliveryStatePickupPoint, false)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if view.Method != "pvz" || len(view.Required) != 1 || view.Required[0] != FieldPointCode {
		t.Fatalf("pickup must require pvz_code: %#v", view)
	}
	if !view.MapExpanded || view.ChangePointVisible {
		t.Fatalf("pickup without point must expand map: %#v", view)
	}

	view, _ = d.SelectGroup(constants.DeliveryStateCourier, false)
	if view.Method != "courier" || len(view.Required) != 1 || view.Required[0] != FieldAddressLine {
		t.Fatalf("courier must require address_line: %#v", view)
	}
}

func TestSelectDisabledGroupIgnored(t *testing.T) {
	d := NewDelivery()
	view, err := d.SelectGroup(constants.DeliveryStateCourier, true)
	if err != nil {
		t.Fatalf("disabled select must not error: %v", err)
	}
	if view.State != constants.DeliveryStateUnselected {
		t.Fatalf("disabled group must be ignored, got %s", view.State)
	}
	if _, err := d.SelectGroup("teleport", false); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestSetCityResetsPoint(t *testing.T) {
	d := NewDelivery()
	_, _ = d.SelectGroup(constants.DeliveryStatePickupStore, false)
	_, _ = d.PickPoint(context.Background(), storefront.PickupPoint{ID: "12", Address: "ул. Ленина, 1", Provider: "Самовывоз"}, nil)
	if d.Shipping() == nil {
		t.Fatalf("precondition: shop pickup has zero shipping")
	}

	view := d.SetCity("Казань")
	if view.PointCode != "" || view.PointAddress != "" || view.PickedLabel != "не выбрано" {
		t.Fatalf("point must be reset: %#v", view)
	}
	if !view.MapExpanded || view.Shipping != nil || view.ShippingText != "—" || view.CityCaption != "г. Казань" {
		t.Fatalf("unexpected view after city change: %#v", view)
	}
}

func TestPickShopPointZeroShipping(t *testing.T) {
	d := NewDelivery()
	_, _ = d.SelectGroup(constants.DeliveryStatePickupStore, false)
	view, err := d.PickPoint(context.Background(), storefront.PickupPoint{ID: "7", Name: "Магазин", Provider: "Самовывоз"}, priceFunc(func(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error) {
		t.Fatalf("shop pickup must not query price")
		return nil, nil
	}))
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if view.PointCode != "Самовывоз: 7" || view.PickedLabel != "Магазин" || view.MapExpanded || !view.ChangePointVisible {
		t.Fatalf("unexpected view: %#v", view)
	}
	if view.Shipping == nil || !view.Shipping.IsZero() || view.ShippingText != "0,00 ₽" {
		t.Fatalf("expected zero shipping: %#v", view)
	}
}

func TestPickCarrierPointPriceLookup(t *testing.T) {
	d := NewDelivery()
	_, _ = d.SelectGroup(constants.DeliveryStatePickupPoint, false)
	view, err := d.PickPoint(context.Background(), storefront.PickupPoint{ID: "MSK12", Address: "Тверская, 5", CityCode: "44", Provider: "cdek"},
		priceFunc(func(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error) {
			if pvzCode != "MSK12" || toCityCode != "44" {
				t.Fatalf("unexpected lookup: %s %s", pvzCode, toCityCode)
			}
			return &storefront.PickupPriceResult{OK: true, Price: price(350)}, nil
		}))
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if view.PointCode != "cdek: MSK12" || view.ShippingText != "350,00 ₽" {
		t.Fatalf("unexpected view: %#v", view)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestCarrierPriceFailureIsUnknownNotError(t *testing.T) {
	cases := []struct {
		name   string
		result *storefront.PickupPriceResult
		err    error
	}{
		{"transport", nil, storefront.ErrUpstreamUnavailable},
		{"not ok", &storefront.PickupPriceResult{OK: false, Error: "CITY_CODE_NOT_FOUND"}, nil},
		{"non numeric", &storefront.PickupPriceResult{OK: true}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDelivery()
			_, _ = d.SelectGroup(constants.DeliveryStatePickupPoint, false)
			view, err := d.PickPoint(context.Background(), storefront.PickupPoint{ID: "X", Provider: "cdek"},
				priceFunc(func(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error) {
					return tc.result, tc.err
				}))
			if err != nil {
				t.Fatalf("price failure must not be an error: %v", err)
			}
			if view.Shipping != nil || view.ShippingText != "—" {
				t.Fatalf("expected unknown shipping: %#v", view)
			}
			if err := d.Validate(); err != nil {
				t.Fatalf("unknown shipping must not block submission: %v", err)
			}
		})
	}
}

func TestStalePriceLookupDiscarded(t *testing.T) {
	d := NewDelivery()
	_, _ = d.SelectGroup(constants.DeliveryStatePickupPoint, false)
	_, _ = d.PickPoint(context.Background(), storefront.PickupPoint{ID: "OLD", Provider: "cdek"},
		priceFunc(func(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error) {
			d.SetCity("Самара")
			return &storefront.PickupPriceResult{OK: true, Price: price(999)}, nil
		}))
	if d.Shipping() != nil {
		t.Fatalf("lookup superseded by city change must not apply")
	}
}

func TestPickPointRequiresPickupGroup(t *testing.T) {
	d := NewDelivery()
	_, _ = d.SelectGroup(constants.DeliveryStateCourier, false)
	if _, err := d.PickPoint(context.Background(), storefront.PickupPoint{ID: "1"}, nil); !errors.Is(err, ErrPointNotExpected) {
		t.Fatalf("expected ErrPointNotExpected, got %v", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	d := NewDelivery()
	if err := d.Validate(); !errors.Is(err, ErrGroupRequired) {
		t.Fatalf("expected ErrGroupRequired, got %v", err)
	}
	_, _ = d.SelectGroup(constants.DeliveryStatePickupPoint, false)
	if err := d.Validate(); !errors.Is(err, ErrPointRequired) {
		t.Fatalf("expected ErrPointRequired, got %v", err)
	}
	_, _ = d.SelectGroup(constants.DeliveryStateCourier, false)
	if err := d.Validate(); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
	d.SetAddressLine("ул. Мира, 3")
	if err := d.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestPreviewTotals(t *testing.T) {
	discount := "-100,00 ₽"
	shipping := models.NewMoneyFromInt(200)
	result := Preview("1 000,00 ₽", &discount, &shipping)
	if result.Total.String() != "1100.00" {
		t.Fatalf("expected 1100, got %s", result.Total)
	}
	if result.TotalText != "1100,00 ₽" {
		t.Fatalf("unexpected total text: %q", result.TotalText)
	}

	result = Preview("1 000,00 ₽", nil, &shipping)
	if result.Total.String() != "1200.00" || !result.Discount.IsZero() {
		t.Fatalf("absent discount must be zero: %#v", result)
	}

	positive := "100"
	result = Preview("1000", &positive, nil)
	if result.Total.String() != "900.00" || result.ShippingText != "—" {
		t.Fatalf("unknown shipping adds zero: %#v", result)
	}
}
