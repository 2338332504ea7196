package storefront

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PickupPriceResult 承运商自提点运费
type PickupPriceResult struct {
	OK        bool
	Price     *float64
	Currency  string
	PeriodMin *int
	PeriodMax *int
	Error     string
}

// City 城市目录条目
type City struct {
	Code   string `json:"code"`
	City   string `json:"city"`
	Region string `json:"region"`
}

// CitySuggestion 城市联想条目
type CitySuggestion struct {
	Name   string   `json:"name"`
	Region string   `json:"region"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

// PickupPoint 自提点
type PickupPoint struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	CityCode string  `json:"city_code,omitempty"`
	Provider string  `json:"provider"`
}

// PickupPrice 按自提点与目的城市代码查询运费；ok=false 以结果返回而非错误
func (s *Session) PickupPrice(ctx context.Context, pvzCode, toCityCode string) (*PickupPriceResult, error) {
	form := url.Values{}
	form.Set("pvz_code", pvzCode)
	form.Set("to_city_code", toCityCode)

	fields := map[string]interface{}{}
	if _, err := s.do(ctx, request{method: http.MethodPost, path: s.client.endpoints.PickupPrice, form: form}, &fields); err != nil {
		return nil, err
	}
	result := &PickupPriceResult{}
	result.OK, _ = fields["ok"].(bool)
	if price, ok := fields["price"].(float64); ok && !math.IsNaN(price) && !math.IsInf(price, 0) {
		result.Price = &price
	}
	result.Currency, _ = fields["currency"].(string)
	result.Error, _ = fields["error"].(string)
	result.PeriodMin = optionalInt(fields["period_min"])
	result.PeriodMax = optionalInt(fields["period_max"])
	return result, nil
}

// SuggestCities 城市联想
func (s *Session) SuggestCities(ctx context.Context, query string) ([]CitySuggestion, error) {
	params := url.Values{}
	params.Set("q", query)
	var payload struct {
		Items []map[string]interface{} `json:"items"`
	}
	if _, err := s.do(ctx, request{method: http.MethodGet, path: s.client.endpoints.CitySuggest, query: params}, &payload); err != nil {
		return nil, err
	}
	out := make([]CitySuggestion, 0, len(payload.Items))
	for _, item := range payload.Items {
		name := stringify(item["name"])
		if name == "" {
			continue
		}
		out = append(out, CitySuggestion{
			Name:   name,
			Region: stringify(item["region"]),
			Lat:    optionalFloat(item["lat"]),
			Lon:    optionalFloat(item["lon"]),
		})
	}
	return out, nil
}

// Cities 城市目录（全部）
func (s *Session) Cities(ctx context.Context) ([]City, error) {
	var items []map[string]interface{}
	if _, err := s.do(ctx, request{method: http.MethodGet, path: s.client.endpoints.Cities}, &items); err != nil {
		return nil, err
	}
	out := make([]City, 0, len(items))
	for _, item := range items {
		name := stringify(item["city"])
		if name == "" {
			continue
		}
		out = append(out, City{Code: stringify(item["code"]), City: name, Region: stringify(item["region"])})
	}
	return out, nil
}

// ShopPoints 门店自提点
func (s *Session) ShopPoints(ctx context.Context, city string) ([]PickupPoint, error) {
	return s.points(ctx, s.client.endpoints.ShopPoints, city)
}

// CarrierPoints 承运商自提点
func (s *Session) CarrierPoints(ctx context.Context, city string) ([]PickupPoint, error) {
	return s.points(ctx, s.client.endpoints.CarrierPts, city)
}

// WhereAmI 坐标反查城市，无结果返回空串
func (s *Session) WhereAmI(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	var payload struct {
		City string `json:"city"`
	}
	if _, err := s.do(ctx, request{method: http.MethodGet, path: s.client.endpoints.WhereAmI, query: params}, &payload); err != nil {
		return "", err
	}
	return strings.TrimSpace(payload.City), nil
}

func (s *Session) points(ctx context.Context, path, city string) ([]PickupPoint, error) {
	var params url.Values
	if strings.TrimSpace(city) != "" {
		params = url.Values{}
		params.Set("city", city)
	}
	var items []map[string]interface{}
	if _, err := s.do(ctx, request{method: http.MethodGet, path: path, query: params}, &items); err != nil {
		return nil, err
	}
	out := make([]PickupPoint, 0, len(items))
	for _, item := range items {
		lat := optionalFloat(item["lat"])
		lon := optionalFloat(item["lon"])
		if lat == nil || lon == nil {
			continue
		}
		out = append(out, PickupPoint{
			ID:       stringify(item["id"]),
			Name:     stringify(item["name"]),
			Address:  stringify(item["address"]),
			Lat:      *lat,
			Lon:      *lon,
			CityCode: stringify(item["city_code"]),
			Provider: stringify(item["provider"]),
		})
	}
	return out, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// optionalFloat 数字或数字字符串，非有限值视为缺失
func optionalFloat(value interface{}) *float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func optionalInt(value interface{}) *int {
	f, ok := value.(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}
