package binance

import (
	"context"
	"log/slog"

	"github.com/adshao/go-binance/v2"
	"github.com/marketwatch-ai/alert-engine/internal/service/marketdata"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const batchLimit = 100

var _ marketdata.QuoteService = (*QuoteService)(nil)

// QuoteService 币安现货批量报价
type QuoteService struct {
	cli *binance.Client
}

func NewQuoteService(cli *binance.Client) *QuoteService {
	return &QuoteService{cli: cli}
}

func (svc *QuoteService) BatchLimit() int {
	return batchLimit
}

func (svc *QuoteService) GetQuotes(ctx context.Context, symbols []string) ([]marketdata.Quote, error) {
	prices, err := svc.cli.NewListPricesService().Symbols(symbols).Do(ctx)
	if err != nil {
		return nil, err
	}

	quotes := lo.FilterMap(prices, func(item *binance.SymbolPrice, index int) (marketdata.Quote, bool) {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			slog.Error("fail to parse price", "symbol", item.Symbol, "price", item.Price, "error", err)
			return marketdata.Quote{}, false
		}
		return marketdata.Quote{
			Symbol: item.Symbol,
			Price:  price,
		}, true
	})
	return quotes, nil
}
