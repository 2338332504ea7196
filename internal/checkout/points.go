package checkout

import (
	"context"

	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/storefront"

	"golang.org/x/sync/errgroup"
)

// PointSource 自提点来源
type PointSource interface {
	ShopPoints(ctx context.Context, city string) ([]storefront.PickupPoint, error)
	CarrierPoints(ctx context.Context, city string) ([]storefront.PickupPoint, error)
}

// PointSet 一个城市的自提点，按提供方分组
type PointSet struct {
	City    string                   `json:"city"`
	Shop    []storefront.PickupPoint `json:"shop"`
	Carrier []storefront.PickupPoint `json:"carrier"`
}

// LoadPoints 并发加载门店与承运商自提点，单个提供方失败时该组为空
func LoadPoints(ctx context.Context, source PointSource, city string) PointSet {
	set := PointSet{City: city, Shop: []storefront.PickupPoint{}, Carrier: []storefront.PickupPoint{}}
	var g errgroup.Group
	g.Go(func() error {
		points, err := source.ShopPoints(ctx, city)
		if err != nil {
			logger.Warnw("checkout_shop_points_failed", "city", city, "error", err)
			return nil
		}
		set.Shop = points
		return nil
	})
	if city != "" {
		g.Go(func() error {
			points, err := source.CarrierPoints(ctx, city)
			if err != nil {
				logger.Warnw("checkout_carrier_points_failed", "city", city, "error", err)
				return nil
			}
			set.Carrier = points
			return nil
		})
	}
	_ = g.Wait()
	return set
}
