package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/models"
	"github.com/lightbike-next/internal/storefront"
)

var (
	ErrUnknownGroup     = errors.New("delivery group unknown")
	ErrGroupRequired    = errors.New("delivery group required")
	ErrPointRequired    = errors.New("pickup point required")
	ErrAddressRequired  = errors.New("delivery address required")
	ErrPointNotExpected = errors.New("pickup point not expected for delivery group")
)

// 提交表单字段
const (
	FieldPointCode   = "pvz_code"
	FieldAddressLine = "address_line"
)

const pickedNone = "не выбрано"

// PriceLookup 承运商运费查询
type PriceLookup interface {
	PickupPrice(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error)
}

// Delivery 结算页配送方式状态机
type Delivery struct {
	mu sync.Mutex

	state              string
	method             string
	city               string
	pointCode          string
	pointAddress       string
	pickedLabel        string
	addressLine        string
	mapExpanded        bool
	changePointVisible bool
	pointRequired      bool
	addressRequired    bool
	shipping           *models.Money
	// 每次选点/换城递增，旧的运费查询结果按此丢弃
	generation uint64
}

// DeliveryView 配送区渲染结果
type DeliveryView struct {
	State              string        `json:"state"`
	Method             string        `json:"method"`
	City               string        `json:"city"`
	CityCaption        string        `json:"city_caption"`
	PointCode          string        `json:"pvz_code"`
	PointAddress       string        `json:"pvz_address"`
	PickedLabel        string        `json:"picked_label"`
	AddressLine        string        `json:"address_line"`
	MapExpanded        bool          `json:"map_expanded"`
	ChangePointVisible bool          `json:"change_point_visible"`
	Required           []string      `json:"required"`
	Shipping           *models.Money `json:"shipping"`
	ShippingText       string        `json:"shipping_text"`
}

// NewDelivery 初始状态：未选择配送方式，地图展开
func NewDelivery() *Delivery {
	return &Delivery{
		state:       constants.DeliveryStateUnselected,
		pickedLabel: pickedNone,
		mapExpanded: true,
	}
}

// SelectGroup 选择配送分组；禁用的分组被忽略
func (d *Delivery) SelectGroup(group string, disabled bool) (DeliveryView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	group = strings.TrimSpace(group)
	if disabled {
		return d.viewLocked(), nil
	}
	switch group {
	case constants.DeliveryStatePickupStore, constants.DeliveryStatePickupPoint:
		d.state = group
		d.method = constants.DeliveryMethodPickup
		d.pointRequired = true
		d.addressRequired = false
		if d.pointCode == "" {
			d.mapExpanded = true
			d.changePointVisible = false
		}
	case constants.DeliveryStateCourier:
		d.state = group
		d.method = constants.DeliveryMethodCourier
		d.pointRequired = false
		d.addressRequired = true
	default:
		return d.viewLocked(), ErrUnknownGroup
	}
	return d.viewLocked(), nil
}

// SetCity 切换城市并重置已选自提点与运费
func (d *Delivery) SetCity(city string) DeliveryView {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.city = strings.TrimSpace(city)
	d.resetPointLocked()
	return d.viewLocked()
}

// ExpandMap 点击“更换自提点”
func (d *Delivery) ExpandMap() DeliveryView {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mapExpanded = true
	return d.viewLocked()
}

// SetAddressLine 快递地址
func (d *Delivery) SetAddressLine(address string) DeliveryView {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addressLine = strings.TrimSpace(address)
	return d.viewLocked()
}

// PickPoint 选择自提点。承运商自提点查询运费，失败或价格非数字时运费未知（不阻止提交）；
// 门店自提运费为 0
func (d *Delivery) PickPoint(ctx context.Context, point storefront.PickupPoint, pricer PriceLookup) (DeliveryView, error) {
	d.mu.Lock()
	if d.state != constants.DeliveryStatePickupStore && d.state != constants.DeliveryStatePickupPoint {
		view := d.viewLocked()
		d.mu.Unlock()
		return view, ErrPointNotExpected
	}
	d.generation++
	generation := d.generation
	d.pointCode = point.Provider + ": " + point.ID
	d.pointAddress = point.Address
	d.pickedLabel = firstNonEmpty(point.Address, point.Name, "выбрано")
	d.mapExpanded = false
	d.changePointVisible = true

	if point.Provider != constants.PickupProviderCarrier || pricer == nil {
		zero := models.Money{}
		d.shipping = &zero
		view := d.viewLocked()
		d.mu.Unlock()
		return view, nil
	}
	d.shipping = nil
	d.mu.Unlock()

	shipping := lookupShipping(ctx, pricer, point)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation == generation {
		d.shipping = shipping
	}
	return d.viewLocked(), nil
}

// Validate 只校验必填字段；运费未知不阻止提交
func (d *Delivery) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == constants.DeliveryStateUnselected {
		return ErrGroupRequired
	}
	if d.pointRequired && d.pointCode == "" {
		return ErrPointRequired
	}
	if d.addressRequired && d.addressLine == "" {
		return ErrAddressRequired
	}
	return nil
}

// Shipping 当前运费，nil 表示未知
func (d *Delivery) Shipping() *models.Money {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shipping == nil {
		return nil
	}
	shipping := *d.shipping
	return &shipping
}

// City 当前城市
func (d *Delivery) City() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.city
}

// View 渲染配送区
func (d *Delivery) View() DeliveryView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Delivery) resetPointLocked() {
	d.generation++
	d.pointCode = ""
	d.pointAddress = ""
	d.pickedLabel = pickedNone
	d.changePointVisible = false
	d.mapExpanded = true
	d.shipping = nil
}

func (d *Delivery) viewLocked() DeliveryView {
	view := DeliveryView{
		State:              d.state,
		Method:             d.method,
		City:               d.city,
		PointCode:          d.pointCode,
		PointAddress:       d.pointAddress,
		PickedLabel:        d.pickedLabel,
		AddressLine:        d.addressLine,
		MapExpanded:        d.mapExpanded,
		ChangePointVisible: d.changePointVisible,
		Required:           []string{},
		ShippingText:       ShippingText(d.shipping),
	}
	if d.city != "" {
		view.CityCaption = "г. " + d.city
	}
	if d.shipping != nil {
		shipping := *d.shipping
		view.Shipping = &shipping
	}
	if d.pointRequired {
		view.Required = append(view.Required, FieldPointCode)
	}
	if d.addressRequired {
		view.Required = append(view.Required, FieldAddressLine)
	}
	return view
}

func lookupShipping(ctx context.Context, pricer PriceLookup, point storefront.PickupPoint) *models.Money {
	result, err := pricer.PickupPrice(ctx, point.ID, point.CityCode)
	if err != nil {
		logger.Warnw("checkout_pickup_price_failed", "pvz_code", point.ID, "to_city_code", point.CityCode, "error", err)
		return nil
	}
	if !result.OK || result.Price == nil {
		logger.Infow("checkout_pickup_price_unknown", "pvz_code", point.ID, "error", result.Error)
		return nil
	}
	price := models.NewMoneyFromFloat(*result.Price)
	return &price
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
