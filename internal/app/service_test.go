package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type blockingService struct {
	name     string
	startErr error

	mu      sync.Mutex
	stopped bool
}

func (s *blockingService) Name() string { return s.name }

func (s *blockingService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *blockingService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *blockingService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllWhenOneFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("listen failed")
	healthy := &blockingService{name: "janitor"}
	failing := &blockingService{name: "http", startErr: boom}

	err := NewRunner(healthy, failing).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if !healthy.wasStopped() || !failing.wasStopped() {
		t.Fatalf("every service must be stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := &blockingService{name: "janitor"}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRunner(svc).Run(ctx, time.Second, nil) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel must be a clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop")
	}
	if !svc.wasStopped() {
		t.Fatalf("service must be stopped")
	}
}

func TestRunnerRejectsEmpty(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner must fail")
	}
}
