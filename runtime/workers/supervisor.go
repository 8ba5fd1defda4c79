package workers

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

const waitTimeBeforeRestart = 200 * time.Millisecond

// Worker is a long-running background task. It returns nil when it is done for good.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to Worker.
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Supervisor runs each worker in a goroutine, restarts it after an error or a panic,
// and stops everything when the parent context is cancelled.
type Supervisor struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
	log     *slog.Logger
	workers []namedWorker
}

type namedWorker struct {
	name string
	Worker
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log}
}

// Add registers workers to start on Run, named after their type.
func (s *Supervisor) Add(worker ...Worker) *Supervisor {
	for _, w := range worker {
		s.workers = append(s.workers, namedWorker{name: workerName(w), Worker: w})
	}
	return s
}

// AddNamed registers a worker under an explicit name, for function workers.
func (s *Supervisor) AddNamed(name string, worker Worker) *Supervisor {
	s.workers = append(s.workers, namedWorker{name: name, Worker: worker})
	return s
}

// Run blocks until every worker has returned.
// Cancelling the parent context or calling Stop cancels the workers.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	for _, worker := range s.workers {
		s.start(supervisedCtx, worker.name, worker.Worker)
	}
	s.wg.Wait()
}

// start runs a worker under supervision. A failure in one worker never stops the supervisor.
func (s *Supervisor) start(ctx context.Context, name string, worker Worker) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("Stopping worker", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("worker panic: %v", r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				// Terminated properly, never restart
				s.log.Info("Worker finished", "name", name)
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(waitTimeBeforeRestart):
			}
		}
	}()
}

// Stop cancels all workers. Run returns once they are done.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// workerName uses reflection to retrieve the type name of the worker.
func workerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
