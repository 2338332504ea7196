package service

import (
	"testing"
	"time"

	"github.com/lightbike-next/internal/constants"
	"github.com/lightbike-next/internal/queue"
	"github.com/lightbike-next/internal/repository"
)

func TestAuditPersistNormalizesPayload(t *testing.T) {
	s := setupServices(t)
	err := s.audit.Persist(queue.CartMutationAuditPayload{
		ViewID:    " v1 ",
		VariantID: "7",
		Action:    constants.CartActionIncrement,
		Outcome:   "weird",
		CartTotal: "1500.5",
	})
	if err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	logs, total, err := s.audit.List(repository.MutationLogFilter{ViewID: "v1", Page: 1, PageSize: 10})
	if err != nil || total != 1 {
		t.Fatalf("unexpected list: %d %v", total, err)
	}
	if logs[0].Outcome != constants.MutationOutcomeFailed || logs[0].CartTotal.String() != "1500.50" {
		t.Fatalf("unexpected log: %+v", logs[0])
	}
}

func TestAuditPersistSkipsIncompletePayload(t *testing.T) {
	s := setupServices(t)
	if err := s.audit.Persist(queue.CartMutationAuditPayload{ViewID: "v1"}); err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	_, total, err := s.audit.List(repository.MutationLogFilter{Page: 1, PageSize: 10})
	if err != nil || total != 0 {
		t.Fatalf("incomplete payload must be skipped: %d %v", total, err)
	}
}

func TestAuditPruneUsesRetention(t *testing.T) {
	s := setupServices(t)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	s.audit.Record(queue.CartMutationAuditPayload{ViewID: "v1", VariantID: "7", Outcome: constants.MutationOutcomeApplied, OccurredAt: now.Add(-30 * 24 * time.Hour)})
	s.audit.Record(queue.CartMutationAuditPayload{ViewID: "v1", VariantID: "7", Outcome: constants.MutationOutcomeApplied, OccurredAt: now.Add(-time.Hour)})

	deleted, err := s.audit.Prune(now)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 pruned record, got %d", deleted)
	}
}

func TestNilAuditServiceIsNoop(t *testing.T) {
	var svc *AuditService
	svc.Record(queue.CartMutationAuditPayload{ViewID: "v1", VariantID: "7"})
	if n, err := svc.Prune(time.Now()); n != 0 || err != nil {
		t.Fatalf("nil service prune must be noop: %d %v", n, err)
	}
}
