package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

const (
	citySuggestKeyPrefix = "suggest:city"
	pickupPriceKeyPrefix = "checkout:pickup_price"
)

// CitySuggestion 城市联想缓存条目
type CitySuggestion struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

// PickupPrice 自提点运费缓存条目
type PickupPrice struct {
	OK    bool     `json:"ok"`
	Price *float64 `json:"price"`
}

// CitySuggestKey 联想缓存键，查询词按小写归一
func CitySuggestKey(query string) string {
	return citySuggestKeyPrefix + ":" + digest(strings.ToLower(strings.TrimSpace(query)))
}

// PickupPriceKey 运费缓存键（购物车范围 + 自提点 + 目的城市）；运费随购物车内容变化，scope 需包含购物车指纹
func PickupPriceKey(scope, pvzCode, toCityCode string) string {
	return pickupPriceKeyPrefix + ":" + digest(strings.TrimSpace(scope)+"|"+strings.TrimSpace(pvzCode)+"|"+strings.TrimSpace(toCityCode))
}

// GetCitySuggestions 读取联想缓存
func GetCitySuggestions(ctx context.Context, query string) ([]CitySuggestion, bool, error) {
	var items []CitySuggestion
	hit, err := GetJSON(ctx, CitySuggestKey(query), &items)
	if err != nil || !hit {
		return nil, hit, err
	}
	return items, true, nil
}

// SetCitySuggestions 写入联想缓存
func SetCitySuggestions(ctx context.Context, query string, items []CitySuggestion, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, CitySuggestKey(query), items, ttl)
}

// GetPickupPrice 读取运费缓存
func GetPickupPrice(ctx context.Context, scope, pvzCode, toCityCode string) (*PickupPrice, bool, error) {
	var price PickupPrice
	hit, err := GetJSON(ctx, PickupPriceKey(scope, pvzCode, toCityCode), &price)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &price, true, nil
}

// SetPickupPrice 写入运费缓存，只缓存成功的报价
func SetPickupPrice(ctx context.Context, scope, pvzCode, toCityCode string, price *PickupPrice, ttl time.Duration) error {
	if price == nil || !price.OK || price.Price == nil || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, PickupPriceKey(scope, pvzCode, toCityCode), price, ttl)
}

func digest(value string) string {
	sum := sha1.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}
