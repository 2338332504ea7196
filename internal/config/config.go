package config

import (
	"strings"
	"time"

	"github.com/lightbike-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Upstream    UpstreamConfig    `mapstructure:"upstream"`
	View        ViewConfig        `mapstructure:"view"`
	Suggest     SuggestConfig     `mapstructure:"suggest"`
	Checkout    CheckoutConfig    `mapstructure:"checkout"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Security    SecurityConfig    `mapstructure:"security"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Audit       AuditConfig       `mapstructure:"audit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release

	// 长轮询（订单状态等待）需要写超时不设置，只限制请求头与空闲连接
	ReadHeaderTimeoutSeconds int `mapstructure:"read_header_timeout_seconds"`
	IdleTimeoutSeconds       int `mapstructure:"idle_timeout_seconds"`
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabaseConfig 审计日志数据库配置
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite / postgres
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// UpstreamConfig 商店后端（上游）配置
type UpstreamConfig struct {
	BaseURL    string            `mapstructure:"base_url"`
	TimeoutMS  int               `mapstructure:"timeout_ms"`
	CSRFCookie string            `mapstructure:"csrf_cookie"`
	Endpoints  UpstreamEndpoints `mapstructure:"endpoints"`
}

// Timeout 返回上游请求超时
func (c UpstreamConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// UpstreamEndpoints 上游接口路径
type UpstreamEndpoints struct {
	Cart        string `mapstructure:"cart"`
	Variant     string `mapstructure:"variant"`
	OrderCancel string `mapstructure:"order_cancel"`
	OrderStatus string `mapstructure:"order_status"` // 含 {id} 占位符
	PickupPrice string `mapstructure:"pickup_price"`
	CitySuggest string `mapstructure:"city_suggest"`
	Cities      string `mapstructure:"cities"`
	ShopPoints  string `mapstructure:"shop_points"`
	CarrierPts  string `mapstructure:"carrier_points"`
	WhereAmI    string `mapstructure:"whereami"`
	PromoApply  string `mapstructure:"promo_apply"`
	PromoRemove string `mapstructure:"promo_remove"`
}

// ViewConfig 购物车视图会话配置
type ViewConfig struct {
	TokenSecret            string `mapstructure:"token_secret"`
	TTLMinutes             int    `mapstructure:"ttl_minutes"`
	JanitorIntervalSeconds int    `mapstructure:"janitor_interval_seconds"`
	CheckoutHref           string `mapstructure:"checkout_href"`
}

// TTL 视图空闲过期时间
func (c ViewConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SuggestConfig 城市联想配置
type SuggestConfig struct {
	DebounceMS      int `mapstructure:"debounce_ms"`
	Limit           int `mapstructure:"limit"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// CheckoutConfig 结算配置
type CheckoutConfig struct {
	DefaultCity             string `mapstructure:"default_city"`
	OrderPollIntervalMS     int    `mapstructure:"order_poll_interval_ms"`
	OrderWaitTimeoutSeconds int    `mapstructure:"order_wait_timeout_seconds"`
	PriceCacheTTLSeconds    int    `mapstructure:"price_cache_ttl_seconds"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	MutationRateLimit RateLimitConfig `mapstructure:"mutation_rate_limit"`
	SuggestRateLimit  RateLimitConfig `mapstructure:"suggest_rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// DiagnosticsConfig 诊断接口配置（token 为空时关闭）
type DiagnosticsConfig struct {
	Token string `mapstructure:"token"`
}

// AuditConfig 购物车突变审计日志配置
type AuditConfig struct {
	RetentionDays        int `mapstructure:"retention_days"`
	PruneIntervalMinutes int `mapstructure:"prune_interval_minutes"`
}

// Load 从 config.yaml 加载配置，环境变量（LB_ 前缀）优先
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹
	v.SetEnvPrefix("LB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Warnw("config_file_not_found_use_defaults")
		} else {
			logger.Warnw("config_read_failed", "error", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
	}
	cfg.normalize()
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_header_timeout_seconds", 10)
	v.SetDefault("server.idle_timeout_seconds", 120)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/lightbike.db")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "lb")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	v.SetDefault("upstream.base_url", "http://127.0.0.1:8000")
	v.SetDefault("upstream.timeout_ms", 15000)
	v.SetDefault("upstream.csrf_cookie", "csrftoken")
	v.SetDefault("upstream.endpoints.cart", "/api/cart/")
	v.SetDefault("upstream.endpoints.variant", "/api/variants/")
	v.SetDefault("upstream.endpoints.order_cancel", "/api/orders/delete/")
	v.SetDefault("upstream.endpoints.order_status", "/orders/{id}/status")
	v.SetDefault("upstream.endpoints.pickup_price", "/api/cdek/price/")
	v.SetDefault("upstream.endpoints.city_suggest", "/api/city-suggest/")
	v.SetDefault("upstream.endpoints.cities", "/api/pvz/cities/")
	v.SetDefault("upstream.endpoints.shop_points", "/api/pvz/shop/")
	v.SetDefault("upstream.endpoints.carrier_points", "/api/pvz/cdek/")
	v.SetDefault("upstream.endpoints.whereami", "/api/whereami/")
	v.SetDefault("upstream.endpoints.promo_apply", "/api/promo/apply/")
	v.SetDefault("upstream.endpoints.promo_remove", "/api/promo/remove/")
	v.SetDefault("view.token_secret", "change-me-in-production")
	v.SetDefault("view.ttl_minutes", 30)
	v.SetDefault("view.janitor_interval_seconds", 60)
	v.SetDefault("view.checkout_href", "/cart/checkout/")
	v.SetDefault("suggest.debounce_ms", 200)
	v.SetDefault("suggest.limit", 20)
	v.SetDefault("suggest.cache_ttl_seconds", 3600)
	v.SetDefault("checkout.default_city", "Москва")
	v.SetDefault("checkout.order_poll_interval_ms", 3000)
	v.SetDefault("checkout.order_wait_timeout_seconds", 25)
	v.SetDefault("checkout.price_cache_ttl_seconds", 600)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Accept-Language",
		"X-Requested-With",
		"X-Request-ID",
		"X-View-Token",
		"X-CSRFToken",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.mutation_rate_limit.window_seconds", 10)
	v.SetDefault("security.mutation_rate_limit.max_requests", 40)
	v.SetDefault("security.suggest_rate_limit.window_seconds", 10)
	v.SetDefault("security.suggest_rate_limit.max_requests", 60)
	v.SetDefault("diagnostics.token", "")
	v.SetDefault("audit.retention_days", 14)
	v.SetDefault("audit.prune_interval_minutes", 60)
}

func (c *Config) normalize() {
	c.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upstream.BaseURL), "/")
	if strings.TrimSpace(c.Upstream.CSRFCookie) == "" {
		c.Upstream.CSRFCookie = "csrftoken"
	}
	if c.Suggest.Limit <= 0 || c.Suggest.Limit > 20 {
		c.Suggest.Limit = 20
	}
	if c.Suggest.DebounceMS < 0 {
		c.Suggest.DebounceMS = 0
	}
	if strings.TrimSpace(c.Checkout.DefaultCity) == "" {
		c.Checkout.DefaultCity = "Москва"
	}
	if strings.TrimSpace(c.View.CheckoutHref) == "" {
		c.View.CheckoutHref = "/cart/checkout/"
	}
}

// DurationMS 毫秒转 Duration，非正值返回 fallback
func DurationMS(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// DurationSeconds 秒转 Duration，非正值返回 fallback
func DurationSeconds(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
