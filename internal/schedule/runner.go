package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/metrics"
)

// Runner 固定间隔驱动一个 Task. 周期在单实例内串行执行不重叠,
// 单周期超过宽限时长后放弃在途网络调用, 已认领的触发不回滚.
type Runner struct {
	task         Task
	interval     time.Duration
	cycleTimeout time.Duration

	mu         sync.RWMutex
	startedAt  time.Time
	lastFinish time.Time
}

func NewRunner(task Task, interval, cycleTimeout time.Duration) *Runner {
	if cycleTimeout <= 0 {
		cycleTimeout = 4 * interval
	}
	return &Runner{
		task:         task,
		interval:     interval,
		cycleTimeout: cycleTimeout,
	}
}

func (r *Runner) Start(ctx context.Context) {
	slog.Info("task runner started", "task", r.task.Name(), "interval", r.interval)
	r.mu.Lock()
	r.startedAt = time.Now()
	r.mu.Unlock()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("task runner stopped", "task", r.task.Name())
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, r.cycleTimeout)
	defer cancel()

	result := "ok"
	if err := r.task.Run(ctx); err != nil {
		result = "error"
		slog.Error("task cycle failed", "task", r.task.Name(), "error", err)
	}
	metrics.CyclesTotal.WithLabelValues(r.task.Name(), result).Inc()

	r.mu.Lock()
	r.lastFinish = time.Now()
	r.mu.Unlock()
}

// Alive 最近有没有完成过周期, 作为存活探针依据
func (r *Runner) Alive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	window := 3*r.interval + r.cycleTimeout
	if r.lastFinish.IsZero() {
		// 首个周期还没跑完, 给启动宽限
		return !r.startedAt.IsZero() && time.Since(r.startedAt) < window
	}
	return time.Since(r.lastFinish) < window
}
