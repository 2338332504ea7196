package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/models"
	"github.com/lightbike-next/internal/provider"
	"github.com/lightbike-next/internal/queue"
	"github.com/lightbike-next/internal/repository"
	"github.com/lightbike-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *repository.GormMutationLogRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	repo := repository.NewMutationLogRepository(db)
	container := &provider.Container{
		MutationLogRepo: repo,
		AuditService:    service.NewAuditService(config.AuditConfig{RetentionDays: 7}, repo, nil),
	}
	return NewConsumer(container), repo
}

func TestHandleCartMutationAuditPersists(t *testing.T) {
	consumer, repo := setupConsumerTest(t)
	task, err := queue.NewCartMutationAuditTask(queue.CartMutationAuditPayload{
		ViewID:         "view-1",
		RequestID:      "req-1",
		VariantID:      "42",
		Action:         constants.CartActionIncrement,
		Outcome:        constants.MutationOutcomeApplied,
		QuantityBefore: 1,
		QuantityAfter:  2,
		CartTotal:      "3000.00",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartMutationAudit(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	logs, total, err := repo.List(repository.MutationLogFilter{ViewID: "view-1", Page: 1, PageSize: 10})
	if err != nil || total != 1 {
		t.Fatalf("expected one record: %d %v", total, err)
	}
	if logs[0].RequestID != "req-1" || logs[0].QuantityAfter != 2 || logs[0].CartTotal.String() != "3000.00" {
		t.Fatalf("unexpected record: %+v", logs[0])
	}
}

func TestHandleCartMutationAuditRejectsMalformedPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	task := asynq.NewTask(queue.TaskCartMutationAudit, []byte("{not-json"))
	if err := consumer.handleCartMutationAudit(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleCartMutationAuditSkipsIncompletePayload(t *testing.T) {
	consumer, repo := setupConsumerTest(t)
	task, err := queue.NewCartMutationAuditTask(queue.CartMutationAuditPayload{ViewID: "view-1"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCartMutationAudit(context.Background(), task); err != nil {
		t.Fatalf("incomplete payload must be dropped silently: %v", err)
	}
	if _, total, _ := repo.List(repository.MutationLogFilter{Page: 1, PageSize: 10}); total != 0 {
		t.Fatalf("nothing must be persisted, got %d", total)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	if _, err := NewService(&config.QueueConfig{Enabled: false}, config.AuditConfig{}, consumer); err == nil {
		t.Fatalf("expected disabled queue error")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, config.AuditConfig{}, nil); err == nil {
		t.Fatalf("expected nil consumer error")
	}
}
