package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/pkg/metrics"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// Monitor is the periodic sweep that detects dead workers and recovers the
// tasks they orphaned. Detection is decoupled from claiming: the sweep never
// runs inside a claim and holds no locks across heartbeat intervals.
type Monitor struct {
	interval    time.Duration
	staleAfter  time.Duration
	deadAfter   time.Duration
	maxAttempts int
	log         *zap.Logger
}

// NewMonitor builds a monitor from configuration
func NewMonitor(cfg *config.Config) *Monitor {
	return &Monitor{
		interval:    cfg.SweepInterval(),
		staleAfter:  cfg.StaleAfter(),
		deadAfter:   cfg.DeadAfter(),
		maxAttempts: cfg.Queue.MaxAttempts,
		log:         zap.L().With(zap.String("component", "heartbeat-monitor")),
	}
}

// Start runs sweeps until the context is cancelled
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("heartbeat monitor started",
		zap.Duration("interval", m.interval),
		zap.Duration("dead_after", m.deadAfter))

	for {
		select {
		case <-ctx.Done():
			m.log.Info("heartbeat monitor stopped")
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep performs one recovery pass. Idempotent: requeue and fail are both
// guarded on the task still being In Progress under the dead worker, so
// running twice on the same snapshot changes nothing the second time. A bad
// row is logged and skipped, never halting the pass.
func (m *Monitor) Sweep() {
	now := time.Now()

	live, err := repository.CountLive(now.Add(-m.staleAfter))
	if err == nil {
		metrics.WorkersActive.Set(float64(live))
	}

	orphans, err := repository.OrphanedTasks(now.Add(-m.deadAfter))
	if err != nil {
		m.log.Error("orphan scan failed", zap.Error(err))
		return
	}

	for _, o := range orphans {
		if o.Attempts+1 < m.maxAttempts {
			ok, err := repository.RequeueOrphan(o.ID, o.WorkerID)
			if err != nil {
				m.log.Error("orphan requeue failed",
					zap.String("task_id", o.ID), zap.Error(err))
				continue
			}
			if ok {
				metrics.TasksRequeued.WithLabelValues(o.TaskType).Inc()
				m.log.Warn("orphaned task requeued",
					zap.String("task_id", o.ID),
					zap.String("worker_id", o.WorkerID),
					zap.Int("attempts", o.Attempts+1))
			}
			continue
		}

		msg := fmt.Sprintf("worker %s stopped heartbeating and retry attempts are exhausted", o.WorkerID)
		ok, err := repository.FailOrphan(o.ID, o.WorkerID, msg)
		if err != nil {
			m.log.Error("orphan fail failed",
				zap.String("task_id", o.ID), zap.Error(err))
			continue
		}
		if ok {
			metrics.TasksOrphaned.WithLabelValues(o.TaskType).Inc()
			m.log.Warn("orphaned task failed permanently",
				zap.String("task_id", o.ID),
				zap.String("worker_id", o.WorkerID))
		}
	}
}
