package workers

import (
	"context"
	"log/slog"
	"time"
)

// GarbageCollector is the store as seen by the GC worker.
type GarbageCollector interface {
	CollectGarbage(discardRatio float64) (int, error)
}

// StoreGCWorker reclaims value log space on a fixed interval.
type StoreGCWorker struct {
	log          *slog.Logger
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
}

func NewStoreGCWorker(log *slog.Logger, store GarbageCollector, interval time.Duration,
	discardRatio float64) *StoreGCWorker {
	return &StoreGCWorker{log: log, store: store, interval: interval, discardRatio: discardRatio}
}

// Run returns an error on the first failed collection so the supervisor restarts it.
func (w *StoreGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rewritten, err := w.store.CollectGarbage(w.discardRatio)
			if err != nil {
				return err
			}
			if rewritten > 0 {
				w.log.Info("Value log compacted", "files_rewritten", rewritten)
			}
		}
	}
}
