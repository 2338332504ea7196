package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lightbike-next/internal/cache"
	"github.com/lightbike-next/internal/checkout"
	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/storefront"
	"github.com/lightbike-next/internal/suggest"
)

// CheckoutService 结算页：城市、自提点、配送方式与价格预览
type CheckoutService struct {
	cfg       *config.Config
	client    *storefront.Client
	views     *ViewService
	directory *checkout.Directory
	priceTTL  time.Duration
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cfg *config.Config, client *storefront.Client, views *ViewService) *CheckoutService {
	anonymous := client.NewSession(nil)
	return &CheckoutService{
		cfg:       cfg,
		client:    client,
		views:     views,
		directory: checkout.NewDirectory(anonymous.Cities),
		priceTTL:  time.Duration(cfg.Checkout.PriceCacheTTLSeconds) * time.Second,
	}
}

// PreviewInput 价格预览输入（页面已渲染的文本）
type PreviewInput struct {
	ViewID       string
	SubtotalText string
	DiscountText *string
}

// ResolveCityInput 初始城市候选
type ResolveCityInput struct {
	ViewID   string
	Saved    string
	Position *checkout.Coordinates
}

// Cities 城市目录，可按名称过滤
func (s *CheckoutService) Cities(ctx context.Context, query string) ([]storefront.City, error) {
	return s.directory.Filter(ctx, query)
}

// PickupPoints 加载城市的门店与承运商自提点
func (s *CheckoutService) PickupPoints(ctx context.Context, cookies []*http.Cookie, city string) checkout.PointSet {
	return checkout.LoadPoints(ctx, s.client.NewSession(cookies), strings.TrimSpace(city))
}

// ResolveCity 确定初始城市并写入配送状态
func (s *CheckoutService) ResolveCity(ctx context.Context, input ResolveCityInput) (checkout.DeliveryView, error) {
	session, err := s.views.Get(input.ViewID)
	if err != nil {
		return checkout.DeliveryView{}, err
	}
	city := checkout.ResolveCity(ctx, checkout.CityHints{
		Server:   session.Delivery.City(),
		Saved:    input.Saved,
		Position: input.Position,
		Fallback: s.cfg.Checkout.DefaultCity,
	}, session.Upstream.WhereAmI)
	if city == session.Delivery.City() {
		return session.Delivery.View(), nil
	}
	return session.Delivery.SetCity(city), nil
}

// SelectGroup 选择配送分组
func (s *CheckoutService) SelectGroup(viewID, group string, disabled bool) (checkout.DeliveryView, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return checkout.DeliveryView{}, err
	}
	return session.Delivery.SelectGroup(group, disabled)
}

// SetCity 切换城市
func (s *CheckoutService) SetCity(viewID, city string) (checkout.DeliveryView, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return checkout.DeliveryView{}, err
	}
	return session.Delivery.SetCity(city), nil
}

// ExpandMap 重新展开地图以更换自提点
func (s *CheckoutService) ExpandMap(viewID string) (checkout.DeliveryView, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return checkout.DeliveryView{}, err
	}
	return session.Delivery.ExpandMap(), nil
}

// SetAddress 快递地址
func (s *CheckoutService) SetAddress(viewID, address string) (checkout.DeliveryView, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return checkout.DeliveryView{}, err
	}
	return session.Delivery.SetAddressLine(address), nil
}

// PickPoint 选择自提点，承运商自提点查询运费
func (s *CheckoutService) PickPoint(ctx context.Context, viewID string, point storefront.PickupPoint) (checkout.DeliveryView, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return checkout.DeliveryView{}, err
	}
	summary := session.State.Summary()
	pricer := &cachedPricer{
		upstream: session.Upstream,
		scope:    fmt.Sprintf("%s:%d:%s", session.State.ID(), summary.TotalCount, summary.TotalPrice.String()),
		ttl:      s.priceTTL,
	}
	return session.Delivery.PickPoint(ctx, point, pricer)
}

// Validate 提交前校验配送字段
func (s *CheckoutService) Validate(viewID string) error {
	session, err := s.views.Get(viewID)
	if err != nil {
		return err
	}
	return session.Delivery.Validate()
}

// Preview 价格预览：小计 - |折扣| + 运费；页面未给折扣时取已应用的促销码
func (s *CheckoutService) Preview(input PreviewInput) (checkout.PreviewResult, error) {
	session, err := s.views.Get(input.ViewID)
	if err != nil {
		return checkout.PreviewResult{}, err
	}
	discountText := input.DiscountText
	if discountText == nil {
		discountText = session.Promo.DiscountText()
	}
	return checkout.Preview(input.SubtotalText, discountText, session.Delivery.Shipping()), nil
}

// SuggestCities 城市联想；被新查询取代时返回 suggest.ErrSuperseded
func (s *CheckoutService) SuggestCities(ctx context.Context, viewID, query string) ([]suggest.Item, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return nil, err
	}
	return session.Suggest.Query(ctx, query)
}

// cachedPricer 运费查询结果按购物车范围缓存到 Redis
type cachedPricer struct {
	upstream checkout.PriceLookup
	scope    string
	ttl      time.Duration
}

func (p *cachedPricer) PickupPrice(ctx context.Context, pvzCode, toCityCode string) (*storefront.PickupPriceResult, error) {
	if cached, hit, err := cache.GetPickupPrice(ctx, p.scope, pvzCode, toCityCode); err == nil && hit {
		return &storefront.PickupPriceResult{OK: cached.OK, Price: cached.Price}, nil
	} else if err != nil {
		logger.Debugw("pickup_price_cache_read_failed", "pvz_code", pvzCode, "error", err)
	}
	result, err := p.upstream.PickupPrice(ctx, pvzCode, toCityCode)
	if err != nil {
		return nil, err
	}
	if err := cache.SetPickupPrice(ctx, p.scope, pvzCode, toCityCode, &cache.PickupPrice{OK: result.OK, Price: result.Price}, p.ttl); err != nil {
		logger.Debugw("pickup_price_cache_write_failed", "pvz_code", pvzCode, "error", err)
	}
	return result, nil
}
