package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lightbike-next/internal/constants"
)

func TestOrderCancelMovesCardToHistory(t *testing.T) {
	s := setupServices(t)
	s.upstream.SetOrder("A-100", constants.OrderStatusCreated)

	card, err := s.orders.Cancel(context.Background(), sessionCookies(), "A-100")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if card.Badge != "Отменён" || card.BadgeClass != "badge--danger" || card.Cancelable || card.Section != "history" {
		t.Fatalf("unexpected card: %+v", card)
	}
	if s.upstream.Order("A-100") != constants.OrderStatusCanceled {
		t.Fatalf("upstream order must be canceled")
	}
}

func TestOrderCancelErrors(t *testing.T) {
	s := setupServices(t)
	if _, err := s.orders.Cancel(context.Background(), nil, " "); !errors.Is(err, ErrOrderIDRequired) {
		t.Fatalf("expected order id required, got %v", err)
	}
	if _, err := s.orders.Cancel(context.Background(), nil, "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
	s.upstream.Close()
	if _, err := s.orders.Cancel(context.Background(), nil, "A-1"); !errors.Is(err, ErrOrderCancelFailed) {
		t.Fatalf("expected cancel failed, got %v", err)
	}
}

func TestOrderWaitForFinalStopsOnPaid(t *testing.T) {
	s := setupServices(t)
	s.upstream.SetOrder("A-7", constants.OrderStatusCreated)
	go func() {
		time.Sleep(30 * time.Millisecond)
		s.upstream.SetOrder("A-7", constants.OrderStatusPaid)
	}()

	result, err := s.orders.WaitForFinal(context.Background(), nil, "A-7")
	if err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if result.Status != constants.OrderStatusPaid || !result.Final {
		t.Fatalf("unexpected result: %+v", result)
	}
	if calls := s.upstream.Calls("/orders/A-7/status"); calls < 2 {
		t.Fatalf("expected repeated polling, got %d calls", calls)
	}
}

func TestOrderWaitForFinalTimesOut(t *testing.T) {
	s := setupServices(t)
	s.upstream.SetOrder("A-8", constants.OrderStatusCreated)
	s.orders.waitTimeout = 50 * time.Millisecond

	result, err := s.orders.WaitForFinal(context.Background(), nil, "A-8")
	if !errors.Is(err, ErrOrderWaitTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if result == nil || result.Status != constants.OrderStatusCreated || result.Final {
		t.Fatalf("timeout must report last status: %+v", result)
	}
}

func TestBuildOrderCard(t *testing.T) {
	if card := BuildOrderCard("1", constants.OrderStatusCreated); !card.Cancelable || card.Section != "active" {
		t.Fatalf("created order must be cancelable: %+v", card)
	}
	if card := BuildOrderCard("1", constants.OrderStatusPaid); card.Cancelable {
		t.Fatalf("paid order must not be cancelable: %+v", card)
	}
}
