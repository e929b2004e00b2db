package quote

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/metrics"
	"github.com/marketwatch-ai/alert-engine/internal/service/marketdata"
	"github.com/samber/lo"
)

const defaultMaxParallel = 4

// Fetcher 每个周期把活跃规则引用的交易对去重后分批拉取报价.
// 子批失败只记录日志, 对应交易对本周期保持未刷新, 不重试不中断.
type Fetcher struct {
	cache       *Cache
	provider    marketdata.QuoteService
	callBudget  int // 单周期允许的最大请求数, 由限频配置推导
	maxParallel int
}

type FetcherOption func(f *Fetcher)

func WithMaxParallel(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxParallel = n
		}
	}
}

func NewFetcher(cache *Cache, provider marketdata.QuoteService, callBudget int, opts ...FetcherOption) *Fetcher {
	if callBudget < 1 {
		callBudget = 1
	}
	f := &Fetcher{
		cache:       cache,
		provider:    provider,
		callBudget:  callBudget,
		maxParallel: defaultMaxParallel,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Refresh 返回本周期成功刷新的交易对, 每个交易对至多写缓存一次.
func (f *Fetcher) Refresh(ctx context.Context, symbols []string) []string {
	symbols = lo.Uniq(symbols)
	if len(symbols) == 0 {
		return nil
	}

	batches := lo.Chunk(symbols, f.provider.BatchLimit())
	if len(batches) > f.callBudget {
		skipped := lo.Flatten(batches[f.callBudget:])
		slog.Warn("symbol count exceeds provider call budget, deferring remainder",
			"budget", f.callBudget, "batches", len(batches), "deferred_symbols", len(skipped))
		batches = batches[:f.callBudget]
	}

	var (
		mu        sync.Mutex
		refreshed []string
		wg        sync.WaitGroup
		sem       = make(chan struct{}, f.maxParallel)
	)

	for _, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(batch []string) {
			defer wg.Done()
			defer func() { <-sem }()

			metrics.ProviderCalls.Inc()
			quotes, err := f.provider.GetQuotes(ctx, batch)
			if err != nil {
				metrics.ProviderErrors.Inc()
				slog.Error("failed to fetch quote batch, symbols stay stale this cycle",
					"symbols", batch, "error", err)
				return
			}

			asOf := time.Now()
			mu.Lock()
			defer mu.Unlock()
			for _, q := range quotes {
				if !q.Price.IsPositive() {
					slog.Warn("dropping non-positive quote", "symbol", q.Symbol, "price", q.Price)
					continue
				}
				f.cache.Set(q.Symbol, q.Price, asOf)
				metrics.QuotesRefreshed.Inc()
				refreshed = append(refreshed, q.Symbol)
			}
		}(batch)
	}
	wg.Wait()

	return refreshed
}
