package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/shopspring/decimal"
)

// TriggerEvent 一条规则被成功认领后产生的触发事件, 只在当前周期内存在
type TriggerEvent struct {
	AlertId  int64
	UserId   int64
	Symbol   string
	Kind     entity.AlertKind
	Price    decimal.Decimal // 触发时的现价
	Target   decimal.Decimal // touch/cross/near 的目标价
	ZoneLow  decimal.Decimal
	ZoneHigh decimal.Decimal
	Reason   string
	At       time.Time
}

// ConfiguredLevel 用户配置的触发位, 用于消息模板
func (e TriggerEvent) ConfiguredLevel() string {
	if e.Kind == entity.KindZone {
		return fmt.Sprintf("%s - %s", e.ZoneLow.StringFixed(5), e.ZoneHigh.StringFixed(5))
	}
	return e.Target.StringFixed(5)
}

type MatchResult struct {
	Matched bool
	Reason  string
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event TriggerEvent)
}
