package quote

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot 某交易对的最新一次与上一次观测
type Snapshot struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
	AsOf     time.Time
}

// Cache 进程内报价缓存, 每个交易对只保留两格历史.
// 单写(fetcher)多读, 取数失败时不写入, 旧快照保持原样.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewCache() *Cache {
	return &Cache{
		snapshots: make(map[string]Snapshot),
	}
}

// Set 写入最新价格, current 下移到 previous.
// 首次观测时 previous 初始化为 current, 保证之后 previous 永远非空.
func (c *Cache) Set(symbol string, price decimal.Decimal, asOf time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.snapshots[symbol]
	snapshot := Snapshot{
		Current:  price,
		Previous: price,
		AsOf:     asOf,
	}
	if ok {
		snapshot.Previous = prev.Current
	}
	c.snapshots[symbol] = snapshot
}

func (c *Cache) Get(symbol string) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, ok := c.snapshots[symbol]
	return snapshot, ok
}
