package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/service/marketdata"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL    = "https://financialmodelingprep.com/stable"
	defaultBatchLimit = 50
)

var _ marketdata.QuoteService = (*QuoteService)(nil)

// QuoteService financialmodelingprep 报价接口, 一次请求可带多个逗号分隔的 symbol
type QuoteService struct {
	apiKey     string
	baseURL    string
	batchLimit int
	cli        *http.Client
}

type Option func(svc *QuoteService)

func WithBaseURL(baseURL string) Option {
	return func(svc *QuoteService) {
		svc.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithBatchLimit(limit int) Option {
	return func(svc *QuoteService) {
		if limit > 0 {
			svc.batchLimit = limit
		}
	}
}

func WithHTTPClient(cli *http.Client) Option {
	return func(svc *QuoteService) {
		svc.cli = cli
	}
}

func NewQuoteService(apiKey string, opts ...Option) *QuoteService {
	svc := &QuoteService{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		batchLimit: defaultBatchLimit,
		cli:        &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *QuoteService) BatchLimit() int {
	return svc.batchLimit
}

type quotePayload struct {
	Symbol string      `json:"symbol"`
	Price  json.Number `json:"price"`
}

func (svc *QuoteService) GetQuotes(ctx context.Context, symbols []string) ([]marketdata.Quote, error) {
	params := url.Values{}
	params.Set("symbol", strings.Join(symbols, ","))
	params.Set("apikey", svc.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/quote?%s", svc.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := svc.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fmp quote request failed: status %d: %s", resp.StatusCode, string(body))
	}

	var payload []quotePayload
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fmp quote response decode: %w", err)
	}

	quotes := make([]marketdata.Quote, 0, len(payload))
	for _, p := range payload {
		price, err := decimal.NewFromString(p.Price.String())
		if err != nil {
			continue
		}
		quotes = append(quotes, marketdata.Quote{
			Symbol: p.Symbol,
			Price:  price,
		})
	}
	return quotes, nil
}
