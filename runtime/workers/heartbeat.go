package workers

import (
	"chat-relay/contract"
	"chat-relay/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs relay counters and process health.
type HeartbeatWorker struct {
	log      *slog.Logger
	interval time.Duration
	registry contract.IRegistry
	stats    *observability.RelayStats
}

func NewHeartbeatWorker(log *slog.Logger, interval time.Duration,
	registry contract.IRegistry, stats *observability.RelayStats) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, interval: interval, registry: registry, stats: stats}
}

// Run executes the main loop of the worker. A zero interval disables it.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Warn("Process stats unavailable", "error", err)
		p = nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.beat(p)
		}
	}
}

func (w *HeartbeatWorker) beat(p *process.Process) {
	snapshot := w.stats.Snapshot()
	attrs := []any{
		"participants", w.registry.Len(),
		"received", snapshot.Received,
		"dropped", snapshot.Dropped,
		"delivered", snapshot.Delivered,
		"send_failures", snapshot.SendFailures,
		"broadcasts", snapshot.Broadcasts,
	}
	if p != nil {
		if rss, cpu, err := selfStats(p); err == nil {
			attrs = append(attrs, "rss_bytes", rss, "cpu_percent", cpu)
		} else {
			w.log.Debug("Failed to collect self stats", "error", err)
		}
	}
	w.log.Info("Relay heartbeat", attrs...)
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
