package marketdata

import (
	"context"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// QuoteService 行情提供方的批量报价接口.
// 一次调用最多接受 BatchLimit 个交易对, 返回成功取到的报价.
type QuoteService interface {
	GetQuotes(ctx context.Context, symbols []string) ([]Quote, error)
	BatchLimit() int
}
