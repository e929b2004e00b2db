package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	unitDefault = decimal.NewFromFloat(0.0001)
	unitJPY     = decimal.NewFromFloat(0.01)
	unitAsset   = decimal.NewFromFloat(0.01)
)

// 加密货币/贵金属, 不按外汇小数位计价
var assetBases = []string{"BTC", "ETH", "XRP", "GOLD", "XAU", "XAG"}

// UnitTable 把交易对映射到最小价格单位(pip), 用于把 near 规则的
// pip 缓冲换算成绝对价差. 未知交易对回退到默认单位而不是报错,
// 误判只影响 near 的灵敏度.
type UnitTable struct {
	overrides map[string]decimal.Decimal
}

func NewUnitTable(overrides map[string]decimal.Decimal) *UnitTable {
	if overrides == nil {
		overrides = make(map[string]decimal.Decimal)
	}
	return &UnitTable{
		overrides: overrides,
	}
}

func (t *UnitTable) UnitSize(symbol string) decimal.Decimal {
	symbol = strings.ToUpper(symbol)
	if u, ok := t.overrides[symbol]; ok {
		return u
	}
	if strings.Contains(symbol, "JPY") {
		return unitJPY
	}
	for _, base := range assetBases {
		if strings.Contains(symbol, base) {
			return unitAsset
		}
	}
	return unitDefault
}
