package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/service"
	"github.com/stretchr/testify/assert"
)

type countingService struct {
	service.MemeService

	mu    sync.Mutex
	calls int
	ttl   time.Duration
}

func (s *countingService) CleanupIdle(_ context.Context, maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.ttl = maxIdle
	return 2
}

func (s *countingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRunOnce(t *testing.T) {
	svc := &countingService{}
	w := NewSessionCleanupWorker(svc, time.Minute, 30*time.Minute)

	assert.Equal(t, 2, w.RunOnce(context.Background()))
	assert.Equal(t, 30*time.Minute, svc.ttl)
}

func TestStartStopsOnCancel(t *testing.T) {
	svc := &countingService{}
	w := NewSessionCleanupWorker(svc, 5*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.count() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStartWithInvalidInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		w := NewSessionCleanupWorker(&countingService{}, interval, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			assert.NotPanics(t, func() { w.Start(ctx) })
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
		assert.Equal(t, defaultCleanupInterval, w.interval)
	}
}
