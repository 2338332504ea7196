package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupMutationLogRepositoryTest(t *testing.T) *GormMutationLogRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate mutation log failed: %v", err)
	}
	return NewMutationLogRepository(db)
}

func TestMutationLogRepositoryListFiltersAndPaginates(t *testing.T) {
	repo := setupMutationLogRepositoryTest(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		outcome := constants.MutationOutcomeApplied
		if i == 4 {
			outcome = constants.MutationOutcomeRejected
		}
		err := repo.Create(&models.CartMutationLog{
			ViewID:        "view-1",
			VariantID:     fmt.Sprintf("%d", 100+i%2),
			Action:        constants.CartActionIncrement,
			Outcome:       outcome,
			QuantityAfter: i + 1,
			CartTotal:     models.NewMoneyFromInt(int64(1000 * (i + 1))),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}
	if err := repo.Create(&models.CartMutationLog{ViewID: "view-2", VariantID: "100", Action: "decrement", Outcome: "applied"}); err != nil {
		t.Fatalf("create other view log failed: %v", err)
	}

	logs, total, err := repo.List(MutationLogFilter{ViewID: "view-1", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("total want 5 got %d", total)
	}
	if len(logs) != 2 {
		t.Fatalf("page size want 2 got %d", len(logs))
	}
	if logs[0].QuantityAfter != 5 {
		t.Fatalf("expected newest first, got quantity_after=%d", logs[0].QuantityAfter)
	}
	if logs[0].CartTotal.String() != "5000.00" {
		t.Fatalf("unexpected cart total: %s", logs[0].CartTotal.String())
	}

	rejected, total, err := repo.List(MutationLogFilter{Outcome: constants.MutationOutcomeRejected})
	if err != nil {
		t.Fatalf("list rejected failed: %v", err)
	}
	if total != 1 || len(rejected) != 1 {
		t.Fatalf("expected one rejected log, got total=%d len=%d", total, len(rejected))
	}
}

func TestMutationLogRepositoryDeleteBefore(t *testing.T) {
	repo := setupMutationLogRepositoryTest(t)
	old := time.Now().Add(-48 * time.Hour)
	if err := repo.Create(&models.CartMutationLog{ViewID: "v", VariantID: "1", Action: "increment", Outcome: "applied", CreatedAt: old}); err != nil {
		t.Fatalf("create old log failed: %v", err)
	}
	if err := repo.Create(&models.CartMutationLog{ViewID: "v", VariantID: "1", Action: "increment", Outcome: "applied"}); err != nil {
		t.Fatalf("create fresh log failed: %v", err)
	}

	removed, err := repo.DeleteBefore(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("delete before failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed want 1 got %d", removed)
	}
	_, total, err := repo.List(MutationLogFilter{})
	if err != nil {
		t.Fatalf("list after delete failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("remaining want 1 got %d", total)
	}
}

func TestMutationLogFilterNormalize(t *testing.T) {
	got := MutationLogFilter{Page: 0, PageSize: 0}.Normalize()
	if got.Page != 1 || got.PageSize != 20 || got.Offset() != 0 {
		t.Fatalf("defaults not applied: %+v", got)
	}
	got = MutationLogFilter{Page: 3, PageSize: 500}.Normalize()
	if got.PageSize != 100 || got.Offset() != 200 {
		t.Fatalf("page size must be capped: %+v offset %d", got, got.Offset())
	}
}
