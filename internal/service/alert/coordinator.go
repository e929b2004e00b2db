package alert

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/marketwatch-ai/alert-engine/internal/metrics"
	"github.com/marketwatch-ai/alert-engine/internal/repo"
	"github.com/marketwatch-ai/alert-engine/internal/schedule"
	"github.com/marketwatch-ai/alert-engine/internal/service/quote"
	"github.com/samber/lo"
)

// Coordinator 单个轮询周期的编排: 取报价 -> 评估 -> 原子认领 -> 分发.
// 认领是唯一的跨实例互斥点, 条件更新没改到行就当作已被别的实例触发.
type Coordinator struct {
	alertRepo  repo.AlertRepo
	cache      *quote.Cache
	fetcher    *quote.Fetcher
	evaluator  *Evaluator
	dispatcher Dispatcher
}

type consoleDispatcher struct {
}

func (c consoleDispatcher) Dispatch(ctx context.Context, event TriggerEvent) {
	fmt.Println("alert triggered", event)
}

type Option func(c *Coordinator)

func WithDispatcher(dispatcher Dispatcher) Option {
	return func(c *Coordinator) {
		c.dispatcher = dispatcher
	}
}

func NewCoordinator(alertRepo repo.AlertRepo, cache *quote.Cache, fetcher *quote.Fetcher,
	evaluator *Evaluator, opts ...Option) *Coordinator {
	c := &Coordinator{
		alertRepo:  alertRepo,
		cache:      cache,
		fetcher:    fetcher,
		evaluator:  evaluator,
		dispatcher: consoleDispatcher{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ schedule.Task = (*Coordinator)(nil)

func (c *Coordinator) Name() string {
	return "price alert monitor task"
}

func (c *Coordinator) Run(ctx context.Context) error {
	alerts, err := c.alertRepo.FindActive(ctx)
	if err != nil {
		// 规则库不可达才算周期级失败, 留到下个周期重试
		return fmt.Errorf("load active alerts: %w", err)
	}
	if len(alerts) == 0 {
		slog.Debug("no active alerts, skipping quote refresh")
		return nil
	}

	symbols := lo.Uniq(lo.Map(alerts, func(a entity.Alert, index int) string {
		return a.Symbol
	}))
	refreshed := lo.SliceToMap(c.fetcher.Refresh(ctx, symbols), func(s string) (string, struct{}) {
		return s, struct{}{}
	})

	var wg sync.WaitGroup
	fired := 0
	for _, a := range alerts {
		if _, ok := refreshed[a.Symbol]; !ok {
			// 本周期没有新鲜报价, 评估顺延
			continue
		}
		snap, ok := c.cache.Get(a.Symbol)
		if !ok {
			continue
		}

		res := c.evaluator.Evaluate(a, snap)
		if !res.Matched {
			continue
		}

		now := time.Now()
		claimed, err := c.alertRepo.Claim(ctx, a.Id, now)
		if err != nil {
			slog.Error("failed to claim matched alert", "alert_id", a.Id, "error", err)
			continue
		}
		if !claimed {
			// 已被并发实例或上个周期认领, 静默丢弃
			slog.Debug("lost claim race", "alert_id", a.Id)
			continue
		}

		event := TriggerEvent{
			AlertId:  a.Id,
			UserId:   a.UserId,
			Symbol:   a.Symbol,
			Kind:     a.Kind,
			Price:    snap.Current,
			Target:   a.TargetPrice,
			ZoneLow:  a.ZoneLow,
			ZoneHigh: a.ZoneHigh,
			Reason:   res.Reason,
			At:       now,
		}
		metrics.TriggersFired.WithLabelValues(string(a.Kind)).Inc()
		slog.Info("alert triggered",
			"alert_id", a.Id,
			"user_id", a.UserId,
			"symbol", a.Symbol,
			"kind", a.Kind,
			"price", snap.Current,
			"reason", res.Reason,
		)
		fired++

		wg.Add(1)
		go func(event TriggerEvent) {
			defer wg.Done()
			c.dispatcher.Dispatch(ctx, event)
		}(event)
	}
	wg.Wait()

	slog.Info("alert cycle finished",
		"alerts", len(alerts),
		"symbols", len(symbols),
		"refreshed", len(refreshed),
		"fired", fired,
	)
	return nil
}
