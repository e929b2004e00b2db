package alert

import (
	"fmt"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/marketwatch-ai/alert-engine/internal/service/quote"
	"github.com/shopspring/decimal"
)

// near 规则未配置缓冲时按 5 pip 处理
const defaultPipBuffer = 5

// Evaluator 纯判定函数: 规则 + 两格快照 -> 是否触发.
// 不做任何 IO, 去重和终态由 Coordinator 的认领步骤保证.
type Evaluator struct {
	units *quote.UnitTable
}

func NewEvaluator(units *quote.UnitTable) *Evaluator {
	return &Evaluator{
		units: units,
	}
}

func (e *Evaluator) Evaluate(a entity.Alert, snap quote.Snapshot) MatchResult {
	switch a.Kind {
	case entity.KindTouch:
		return e.evalTouch(a, snap)
	case entity.KindCross:
		return e.evalCross(a, snap)
	case entity.KindNear:
		return e.evalNear(a, snap)
	case entity.KindZone:
		return e.evalZone(a, snap)
	default:
		// 未知类型永不匹配, 不让单条脏数据打断周期
		return MatchResult{}
	}
}

// evalTouch 现价相对上一次观测穿过或正好落在目标价上, 方向不限
func (e *Evaluator) evalTouch(a entity.Alert, snap quote.Snapshot) MatchResult {
	dCur := snap.Current.Sub(a.TargetPrice)
	dPrev := snap.Previous.Sub(a.TargetPrice)

	if !dCur.IsZero() && !dPrev.IsZero() && dCur.Sign() == dPrev.Sign() {
		return MatchResult{}
	}

	side := "from below"
	if dPrev.Sign() > 0 {
		side = "from above"
	}
	return MatchResult{
		Matched: true,
		Reason:  fmt.Sprintf("price touched %s %s", a.TargetPrice.StringFixed(5), side),
	}
}

// evalCross 只在配置方向上的穿越才算数, 反向触碰不触发
func (e *Evaluator) evalCross(a entity.Alert, snap quote.Snapshot) MatchResult {
	switch a.Direction {
	case entity.DirectionAbove:
		if snap.Previous.LessThan(a.TargetPrice) && snap.Current.GreaterThanOrEqual(a.TargetPrice) {
			return MatchResult{
				Matched: true,
				Reason:  fmt.Sprintf("price crossed %s from below", a.TargetPrice.StringFixed(5)),
			}
		}
	case entity.DirectionBelow:
		if snap.Previous.GreaterThan(a.TargetPrice) && snap.Current.LessThanOrEqual(a.TargetPrice) {
			return MatchResult{
				Matched: true,
				Reason:  fmt.Sprintf("price crossed %s from above", a.TargetPrice.StringFixed(5)),
			}
		}
	}
	return MatchResult{}
}

func (e *Evaluator) evalNear(a entity.Alert, snap quote.Snapshot) MatchResult {
	pips := a.PipBuffer
	if pips <= 0 {
		pips = defaultPipBuffer
	}
	buffer := decimal.NewFromInt(pips).Mul(e.units.UnitSize(a.Symbol))

	if snap.Current.Sub(a.TargetPrice).Abs().GreaterThan(buffer) {
		return MatchResult{}
	}
	return MatchResult{
		Matched: true,
		Reason:  fmt.Sprintf("price within %d pips of %s", pips, a.TargetPrice.StringFixed(5)),
	}
}

// evalZone 现价本周期刚进入区间才触发, 驻留在区间内不重复触发
func (e *Evaluator) evalZone(a entity.Alert, snap quote.Snapshot) MatchResult {
	if !a.ZoneLow.LessThan(a.ZoneHigh) {
		// 非法区间当作永不匹配
		return MatchResult{}
	}

	inside := func(p decimal.Decimal) bool {
		return p.GreaterThanOrEqual(a.ZoneLow) && p.LessThanOrEqual(a.ZoneHigh)
	}
	if !inside(snap.Current) || inside(snap.Previous) {
		return MatchResult{}
	}
	return MatchResult{
		Matched: true,
		Reason: fmt.Sprintf("price entered zone %s - %s",
			a.ZoneLow.StringFixed(5), a.ZoneHigh.StringFixed(5)),
	}
}
