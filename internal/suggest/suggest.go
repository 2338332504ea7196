package suggest

import (
	"context"
	"errors"
	"html"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lightbike-next/internal/cache"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/storefront"

	"go.uber.org/zap"
)

// ErrSuperseded 查询已被更新的输入取代，结果应静默丢弃
var ErrSuperseded = errors.New("suggest query superseded")

const (
	// MaxResults 联想结果上限
	MaxResults      = 20
	defaultDebounce = 200 * time.Millisecond
)

// Fetcher 上游联想接口
type Fetcher func(ctx context.Context, query string) ([]storefront.CitySuggestion, error)

// Item 联想条目，HTML 中匹配片段包裹 <mark>
type Item struct {
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
	HTML   string `json:"html"`
}

// Options 联想配置
type Options struct {
	Debounce time.Duration
	Limit    int
	CacheTTL time.Duration
}

// Autocompleter 单个视图的城市联想：防抖、新查询取消旧请求、只有最新查询能产出结果
type Autocompleter struct {
	fetch    Fetcher
	debounce time.Duration
	limit    int
	cacheTTL time.Duration
	log      *zap.SugaredLogger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	local      map[string][]cache.CitySuggestion
}

// New 创建联想器
func New(fetch Fetcher, opts Options) *Autocompleter {
	debounce := opts.Debounce
	if debounce < 0 {
		debounce = defaultDebounce
	}
	limit := opts.Limit
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}
	return &Autocompleter{
		fetch:    fetch,
		debounce: debounce,
		limit:    limit,
		cacheTTL: opts.CacheTTL,
		log:      logger.Named("suggest"),
		local:    map[string][]cache.CitySuggestion{},
	}
}

// Query 发起一次联想。空查询直接清空不发请求；被后续查询取代时返回 ErrSuperseded
func (a *Autocompleter) Query(ctx context.Context, query string) ([]Item, error) {
	query = strings.TrimSpace(query)
	qctx, generation := a.begin(ctx)
	defer a.end(generation)

	if query == "" {
		return []Item{}, nil
	}

	if a.debounce > 0 {
		timer := time.NewTimer(a.debounce)
		select {
		case <-qctx.Done():
			timer.Stop()
			return nil, a.abortErr(qctx, generation)
		case <-timer.C:
		}
	}

	key := strings.ToLower(query)
	if items, ok := a.cached(qctx, key); ok {
		if !a.current(generation) {
			return nil, ErrSuperseded
		}
		return render(items, query), nil
	}

	fetched, err := a.fetch(qctx, query)
	if !a.current(generation) {
		a.log.Debugw("suggest_superseded", "query", query)
		return nil, ErrSuperseded
	}
	if err != nil {
		if qctx.Err() != nil {
			return nil, a.abortErr(qctx, generation)
		}
		return nil, err
	}

	items := make([]cache.CitySuggestion, 0, len(fetched))
	for _, s := range fetched {
		if len(items) >= a.limit {
			break
		}
		items = append(items, cache.CitySuggestion{Name: s.Name, Region: s.Region})
	}
	a.store(qctx, key, items)
	return render(items, query), nil
}

// Close 取消进行中的查询，视图销毁时调用
func (a *Autocompleter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Autocompleter) begin(ctx context.Context) (context.Context, uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.generation++
	qctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	return qctx, a.generation
}

func (a *Autocompleter) end(generation uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation == generation && a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Autocompleter) current(generation uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation == generation
}

func (a *Autocompleter) abortErr(ctx context.Context, generation uint64) error {
	if !a.current(generation) {
		return ErrSuperseded
	}
	return ctx.Err()
}

func (a *Autocompleter) cached(ctx context.Context, key string) ([]cache.CitySuggestion, bool) {
	a.mu.Lock()
	items, ok := a.local[key]
	a.mu.Unlock()
	if ok {
		return items, true
	}
	items, hit, err := cache.GetCitySuggestions(ctx, key)
	if err != nil {
		a.log.Debugw("suggest_cache_get_failed", "error", err)
		return nil, false
	}
	if hit {
		a.mu.Lock()
		a.local[key] = items
		a.mu.Unlock()
	}
	return items, hit
}

func (a *Autocompleter) store(ctx context.Context, key string, items []cache.CitySuggestion) {
	a.mu.Lock()
	a.local[key] = items
	a.mu.Unlock()
	if err := cache.SetCitySuggestions(ctx, key, items, a.cacheTTL); err != nil {
		a.log.Debugw("suggest_cache_set_failed", "error", err)
	}
}

func render(items []cache.CitySuggestion, query string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			Name:   it.Name,
			Region: it.Region,
			HTML:   Highlight(it.Name, it.Region, query),
		})
	}
	return out
}

// Highlight 转义名称并用 <mark> 包裹第一个（忽略大小写的）匹配片段
func Highlight(name, region, query string) string {
	escaped := html.EscapeString(name)
	if q := strings.TrimSpace(query); q != "" {
		rx, err := regexp.Compile("(?i)(" + regexp.QuoteMeta(html.EscapeString(q)) + ")")
		if err == nil {
			if loc := rx.FindStringIndex(escaped); loc != nil {
				escaped = escaped[:loc[0]] + "<mark>" + escaped[loc[0]:loc[1]] + "</mark>" + escaped[loc[1]:]
			}
		}
	}
	if region != "" {
		escaped += `, <span class="muted region">` + html.EscapeString(region) + `</span>`
	}
	return escaped
}
