package provider

import (
	"github.com/lightbike-next/internal/cache"
	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/models"
	"github.com/lightbike-next/internal/queue"
	"github.com/lightbike-next/internal/repository"
	"github.com/lightbike-next/internal/service"
	"github.com/lightbike-next/internal/storefront"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storefront  *storefront.Client

	// Repositories
	MutationLogRepo repository.MutationLogRepository

	// Services
	ViewTokenService *service.ViewTokenService
	AuditService     *service.AuditService
	ViewService      *service.ViewService
	CheckoutService  *service.CheckoutService
	OrderService     *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端；未启用时审计直接落库
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Storefront:  storefront.NewClient(cfg.Upstream),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	if models.DB == nil {
		logger.Warnw("provider_database_not_initialized")
		return
	}
	c.MutationLogRepo = repository.NewMutationLogRepository(models.DB)
}

func (c *Container) initServices() {
	c.ViewTokenService = service.NewViewTokenService(c.Config.View)
	c.AuditService = service.NewAuditService(c.Config.Audit, c.MutationLogRepo, c.QueueClient)
	c.ViewService = service.NewViewService(c.Config, c.Storefront, c.ViewTokenService, c.AuditService)
	c.CheckoutService = service.NewCheckoutService(c.Config, c.Storefront, c.ViewService)
	c.OrderService = service.NewOrderService(c.Config.Checkout, c.Storefront)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.ViewService != nil {
		c.ViewService.CloseAll()
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
