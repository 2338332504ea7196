package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/storefront"

	"golang.org/x/sync/singleflight"
)

const defaultCity = "Москва"

// CityFetcher 城市目录来源
type CityFetcher func(ctx context.Context) ([]storefront.City, error)

// Directory 城市目录，进程内只成功加载一次；失败不缓存
type Directory struct {
	fetch CityFetcher
	group singleflight.Group

	mu     sync.RWMutex
	cities []storefront.City
	loaded bool
}

// NewDirectory 创建城市目录
func NewDirectory(fetch CityFetcher) *Directory {
	return &Directory{fetch: fetch}
}

// Cities 返回全部城市，并发请求合并为一次上游调用
func (d *Directory) Cities(ctx context.Context) ([]storefront.City, error) {
	d.mu.RLock()
	if d.loaded {
		cities := d.cities
		d.mu.RUnlock()
		return cities, nil
	}
	d.mu.RUnlock()

	value, err, _ := d.group.Do("cities", func() (interface{}, error) {
		cities, err := d.fetch(ctx)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.cities = cities
		d.loaded = true
		d.mu.Unlock()
		return cities, nil
	})
	if err != nil {
		logger.Warnw("checkout_city_directory_load_failed", "error", err)
		return nil, err
	}
	return value.([]storefront.City), nil
}

// Filter 加载后按子串过滤
func (d *Directory) Filter(ctx context.Context, query string) ([]storefront.City, error) {
	cities, err := d.Cities(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCities(cities, query), nil
}

// FilterCities 忽略大小写的子串过滤，空查询返回全部
func FilterCities(cities []storefront.City, query string) []storefront.City {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]storefront.City, 0, len(cities))
	for _, city := range cities {
		if q == "" || strings.Contains(strings.ToLower(city.City), q) {
			out = append(out, city)
		}
	}
	return out
}

// Coordinates 浏览器地理位置
type Coordinates struct {
	Lat float64
	Lon float64
}

// Locator 坐标反查城市
type Locator func(ctx context.Context, lat, lon float64) (string, error)

// CityHints 初始城市的候选来源
type CityHints struct {
	Server   string
	Saved    string
	Position *Coordinates
	Fallback string
}

// ResolveCity 初始城市：服务端值 → 已保存值 → 地理定位 → 默认城市
func ResolveCity(ctx context.Context, hints CityHints, locate Locator) string {
	if city := strings.TrimSpace(hints.Server); city != "" {
		return city
	}
	if city := strings.TrimSpace(hints.Saved); city != "" {
		return city
	}
	fallback := strings.TrimSpace(hints.Fallback)
	if fallback == "" {
		fallback = defaultCity
	}
	if hints.Position == nil || locate == nil {
		return fallback
	}
	city, err := locate(ctx, hints.Position.Lat, hints.Position.Lon)
	if err != nil {
		logger.Debugw("checkout_whereami_failed", "error", err)
		return fallback
	}
	if city = strings.TrimSpace(city); city != "" {
		return city
	}
	return fallback
}
