package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	worker := WorkerFunc(func(ctx context.Context) error {
		calls.Add(1)
		panic("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go NewSupervisor(slog.Default()).AddNamed("panicky", worker).Run(ctx)

	// Waiting for panics and restarts
	req.Eventually(func() bool { return calls.Load() >= 2 }, 900*time.Millisecond, 20*time.Millisecond)
}

func TestSupervisor_RestartOnError(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	worker := WorkerFunc(func(ctx context.Context) error {
		if calls.Add(1) < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	done := make(chan struct{})
	go func() {
		NewSupervisor(slog.Default()).Add(worker).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		req.Equal(int32(3), calls.Load())
	case <-time.After(2 * time.Second):
		req.Fail("Supervisor should have stopped after the worker succeeded")
	}
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	worker := WorkerFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	done := make(chan struct{})
	go func() {
		NewSupervisor(slog.Default()).Add(worker).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		req.Equal(int32(1), calls.Load())
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped after worker success")
	}
}

func TestSupervisor_Stop(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(slog.Default()).Add(WorkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}))

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	req.Eventually(func() bool {
		sup.Stop()
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

type fakeCollector struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCollector) CollectGarbage(float64) (int, error) {
	f.calls.Add(1)
	return 1, f.err
}

func TestStoreGCWorker(t *testing.T) {
	t.Run("should collect on every tick until cancelled", func(t *testing.T) {
		req := require.New(t)
		store := &fakeCollector{}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- NewStoreGCWorker(slog.Default(), store, 5*time.Millisecond, 0.5).Run(ctx) }()

		req.Eventually(func() bool { return store.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()
		req.NoError(<-done)
	})

	t.Run("should fail so the supervisor restarts it", func(t *testing.T) {
		req := require.New(t)
		store := &fakeCollector{err: fmt.Errorf("disk full")}

		err := NewStoreGCWorker(slog.Default(), store, time.Millisecond, 0.5).Run(context.Background())
		req.Error(err)
	})
}
