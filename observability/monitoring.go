package observability

import (
	"context"
	"dm-chat/errors"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitoringStats is the process and traffic snapshot exposed on /health.
type MonitoringStats struct {
	PID        int32   `json:"pid"`
	PidStatus  string  `json:"pid_status"`
	CpuPercent float64 `json:"cpu_percent"`
	RamBytes   uint64  `json:"ram_bytes"`

	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`

	Requests  uint64            `json:"requests"`
	Failures  map[string]uint64 `json:"failures"`
	Uptime    string            `json:"uptime"`
	SampledAt time.Time         `json:"sampled_at"`
}

// MonitoringManager counts served operations and samples the process on a ticker.
type MonitoringManager struct {
	log       *slog.Logger
	interval  time.Duration
	startedAt time.Time
	proc      *process.Process

	requests atomic.Uint64
	failures sync.Map // errors.Kind -> *atomic.Uint64

	mu          sync.RWMutex
	latestStats MonitoringStats
}

func NewMonitoringManager(log *slog.Logger, interval time.Duration) *MonitoringManager {
	mm := &MonitoringManager{
		log:       log,
		interval:  interval,
		startedAt: time.Now(),
	}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process stats unavailable", "error", err)
	} else {
		mm.proc = p
	}
	mm.updateStats()
	return mm
}

// Observe records the outcome of one served operation.
func (mm *MonitoringManager) Observe(err error) {
	mm.requests.Add(1)
	if err == nil {
		return
	}
	counter, _ := mm.failures.LoadOrStore(errors.KindOf(err), new(atomic.Uint64))
	counter.(*atomic.Uint64).Add(1)
}

// Run refreshes the snapshot until ctx is done.
func (mm *MonitoringManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Monitoring manager stopped")
			return nil
		case <-ticker.C:
			mm.updateStats()
		}
	}
}

func (mm *MonitoringManager) updateStats() {
	stats := MonitoringStats{
		PID:        int32(os.Getpid()),
		Goroutines: runtime.NumGoroutine(),
		SampledAt:  time.Now().UTC(),
	}
	if mm.proc != nil {
		rss, cpu, status, err := selfStats(mm.proc)
		if err != nil {
			mm.log.Debug("Failed to collect self stats", "error", err)
		}
		stats.RamBytes, stats.CpuPercent, stats.PidStatus = rss, cpu, status
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC

	mm.mu.Lock()
	mm.latestStats = stats
	mm.mu.Unlock()
}

// GetLatest returns the last process sample with live request counters.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	stats := mm.latestStats
	mm.mu.RUnlock()

	stats.Requests = mm.requests.Load()
	stats.Failures = make(map[string]uint64)
	mm.failures.Range(func(key, value any) bool {
		stats.Failures[string(key.(errors.Kind))] = value.(*atomic.Uint64).Load()
		return true
	})
	stats.Uptime = time.Since(mm.startedAt).Truncate(time.Second).String()
	return stats
}

// selfStats retrieves memory, CPU and OS status for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return memInfo.RSS, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return memInfo.RSS, cpu, "", err
	}
	return memInfo.RSS, cpu, status, nil
}
