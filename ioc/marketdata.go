package ioc

import (
	"fmt"

	"github.com/marketwatch-ai/alert-engine/internal/service/marketdata"
	bmarket "github.com/marketwatch-ai/alert-engine/internal/service/marketdata/binance"
	"github.com/marketwatch-ai/alert-engine/internal/service/marketdata/fmp"
	"github.com/marketwatch-ai/alert-engine/internal/service/quote"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

func InitQuoteService() marketdata.QuoteService {
	type FMPConfig struct {
		ApiKey     string `mapstructure:"api_key"`
		BaseURL    string `mapstructure:"base_url"`
		BatchLimit int    `mapstructure:"batch_limit"`
	}
	type Config struct {
		Provider string    `mapstructure:"provider"`
		FMP      FMPConfig `mapstructure:"fmp"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("marketdata", &cfg); err != nil {
		panic(err)
	}

	switch cfg.Provider {
	case "binance":
		return bmarket.NewQuoteService(InitBinanceCli())
	case "fmp", "":
		if cfg.FMP.ApiKey == "" {
			panic("no fmp api key set")
		}
		var opts []fmp.Option
		if cfg.FMP.BaseURL != "" {
			opts = append(opts, fmp.WithBaseURL(cfg.FMP.BaseURL))
		}
		if cfg.FMP.BatchLimit > 0 {
			opts = append(opts, fmp.WithBatchLimit(cfg.FMP.BatchLimit))
		}
		return fmp.NewQuoteService(cfg.FMP.ApiKey, opts...)
	default:
		panic(fmt.Sprintf("unknown marketdata provider: %s", cfg.Provider))
	}
}

// InitUnitTable pip 表, config 里可按交易对覆盖
func InitUnitTable() *quote.UnitTable {
	raw := viper.GetStringMapString("units")
	overrides := make(map[string]decimal.Decimal, len(raw))
	for symbol, size := range raw {
		u, err := decimal.NewFromString(size)
		if err != nil {
			panic(fmt.Sprintf("invalid unit size for %s: %s", symbol, size))
		}
		overrides[symbol] = u
	}
	return quote.NewUnitTable(overrides)
}
