package service

import (
	"context"
	"fmt"

	"github.com/lightbike-next/internal/cartview"
	"github.com/lightbike-next/internal/checkout"
	"github.com/lightbike-next/internal/logger"
)

// PromoView 促销码操作后的视图
type PromoView struct {
	Promo *checkout.Promo   `json:"promo"`
	View  cartview.Snapshot `json:"view"`
}

// ApplyPromo 提交促销码；上游接受后记录折扣并重新加载购物车
func (s *CheckoutService) ApplyPromo(ctx context.Context, viewID, code string) (*PromoView, error) {
	code = checkout.NormalizePromoCode(code)
	if code == "" {
		return nil, ErrPromoCodeRequired
	}
	session, err := s.views.Get(viewID)
	if err != nil {
		return nil, err
	}
	result, err := session.Upstream.ApplyPromo(ctx, code)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		logger.Infow("promo_rejected", "view_id", viewID, "code", code, "reason", result.Error)
		return nil, fmt.Errorf("%w: %s", ErrPromoRejected, result.Error)
	}
	promo := checkout.Promo{Code: code, Discount: cartview.ParseMoney(result.Discount)}
	if result.Code != "" {
		promo.Code = checkout.NormalizePromoCode(result.Code)
	}
	session.Promo.Set(promo)
	logger.Infow("promo_applied", "view_id", viewID, "code", promo.Code, "discount", promo.Discount.String())
	return s.promoView(ctx, viewID, session)
}

// RemovePromo 撤销促销码并重新加载购物车
func (s *CheckoutService) RemovePromo(ctx context.Context, viewID string) (*PromoView, error) {
	session, err := s.views.Get(viewID)
	if err != nil {
		return nil, err
	}
	if _, err := session.Upstream.RemovePromo(ctx); err != nil {
		return nil, err
	}
	session.Promo.Clear()
	logger.Infow("promo_removed", "view_id", viewID)
	return s.promoView(ctx, viewID, session)
}

func (s *CheckoutService) promoView(ctx context.Context, viewID string, session *ViewSession) (*PromoView, error) {
	snapshot, err := s.views.Reload(ctx, viewID)
	if err != nil {
		return nil, err
	}
	out := &PromoView{View: snapshot}
	if promo, ok := session.Promo.Current(); ok {
		out.Promo = &promo
	}
	return out, nil
}
