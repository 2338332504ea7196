package router

import (
	"fmt"
	"strings"

	"github.com/lightbike-next/internal/cache"
	"github.com/lightbike-next/internal/config"
	publichandlers "github.com/lightbike-next/internal/http/handlers/public"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lb"
	}
	redisClient := cache.Client()
	mutationRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:mutation", redisPrefix),
		WindowSeconds: cfg.Security.MutationRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.MutationRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited_wait",
	}
	suggestRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:suggest", redisPrefix),
		WindowSeconds: cfg.Security.SuggestRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SuggestRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited_wait",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		cart := apiV1.Group("/cart")
		{
			// 页面加载：建立视图并签发令牌
			cart.POST("/views", handler.CreateView)

			// 视图接口（需视图令牌）
			view := cart.Group("/views/:view_id")
			view.Use(ViewTokenMiddleware(c.ViewService))
			{
				view.GET("", handler.GetView)
				view.DELETE("", handler.DeleteView)
				view.POST("/reload", handler.ReloadView)
				view.POST("/lines/:variant_id/:action", RateLimitMiddleware(redisClient, mutationRule, KeyByView), handler.MutateLine)
				view.POST("/checkout/activate", handler.ActivateCheckout)
				view.GET("/city-suggest", RateLimitMiddleware(redisClient, suggestRule, KeyByView), handler.SuggestCities)

				// 配送方式
				view.GET("/delivery", handler.GetDelivery)
				view.POST("/delivery/group", handler.SelectDeliveryGroup)
				view.POST("/delivery/city", handler.SetDeliveryCity)
				view.POST("/delivery/resolve", handler.ResolveDeliveryCity)
				view.POST("/delivery/map", handler.ExpandDeliveryMap)
				view.POST("/delivery/address", handler.SetDeliveryAddress)
				view.POST("/delivery/point", handler.PickDeliveryPoint)
				view.POST("/delivery/validate", handler.ValidateDelivery)
				view.POST("/delivery/preview", handler.PreviewTotals)

				// 促销码
				view.POST("/promo", handler.ApplyPromo)
				view.DELETE("/promo", handler.RemovePromo)
			}
		}

		// 结算页目录
		checkout := apiV1.Group("/checkout")
		{
			checkout.GET("/cities", handler.ListCities)
			checkout.GET("/pickup-points", handler.ListPickupPoints)
		}

		// 个人中心订单
		orders := apiV1.Group("/orders")
		{
			orders.POST("/:order_id/cancel", handler.CancelOrder)
			orders.GET("/:order_id/status", handler.GetOrderStatus)
		}

		// 运维诊断（需诊断令牌）
		internal := apiV1.Group("/internal")
		internal.Use(DiagnosticsTokenMiddleware(cfg.Diagnostics))
		{
			internal.GET("/diagnostics", handler.Diagnostics)
			internal.GET("/mutations", handler.ListMutationLogs)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		status := gin.H{"status": "ok", "views": c.ViewService.Count()}
		if cache.Enabled() {
			if err := cache.Ping(ctx.Request.Context()); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}
		ctx.JSON(200, status)
	})

	return r
}
