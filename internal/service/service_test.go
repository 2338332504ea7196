package service

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/models"
	"github.com/lightbike-next/internal/queue"
	"github.com/lightbike-next/internal/repository"
	"github.com/lightbike-next/internal/storefront"
	"github.com/lightbike-next/internal/storefront/storefronttest"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testServices struct {
	upstream *storefronttest.Server
	repo     *repository.GormMutationLogRepository
	audit    *AuditService
	views    *ViewService
	checkout *CheckoutService
	orders   *OrderService
}

func testConfig(upstream config.UpstreamConfig) *config.Config {
	return &config.Config{
		Upstream: upstream,
		View: config.ViewConfig{
			TokenSecret:  "test-secret",
			TTLMinutes:   30,
			CheckoutHref: "/cart/checkout/",
		},
		Suggest:  config.SuggestConfig{DebounceMS: 0, Limit: 20},
		Checkout: config.CheckoutConfig{DefaultCity: "Москва", OrderPollIntervalMS: 10, OrderWaitTimeoutSeconds: 1},
		Audit:    config.AuditConfig{RetentionDays: 14},
	}
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	upstream := storefronttest.New(t)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	cfg := testConfig(upstream.Config())
	client := storefront.NewClient(cfg.Upstream)
	repo := repository.NewMutationLogRepository(db)
	audit := NewAuditService(cfg.Audit, repo, queueClient)
	views := NewViewService(cfg, client, NewViewTokenService(cfg.View), audit)
	t.Cleanup(views.CloseAll)
	return &testServices{
		upstream: upstream,
		repo:     repo,
		audit:    audit,
		views:    views,
		checkout: NewCheckoutService(cfg, client, views),
		orders:   NewOrderService(cfg.Checkout, client),
	}
}

func sessionCookies() []*http.Cookie {
	return []*http.Cookie{{Name: "sessionid", Value: "s1"}, {Name: "csrftoken", Value: "c1"}}
}
