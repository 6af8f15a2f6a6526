package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/models"
)

// YahooProvider fetches quotes from the Yahoo Finance chart API. It covers
// US listings natively and NSE/BSE listings through the suffixed symbols.
type YahooProvider struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewYahooProvider(baseURL string, timeout time.Duration, log zerolog.Logger) *YahooProvider {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &YahooProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (p *YahooProvider) Name() string {
	return "yahoo"
}

// chartResponse mirrors the relevant slice of the Yahoo chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) GetQuote(ctx context.Context, symbol string, exchange models.Exchange) (*Quote, error) {
	qualified := QuerySymbol(symbol, exchange)

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		p.baseURL, url.PathEscape(qualified))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "findash/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", qualified).Msg("quote request failed")
		return nil, fmt.Errorf("%w: %s: %v", models.ErrQuoteUnavailable, qualified, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown symbol %s", models.ErrQuoteUnavailable, qualified)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: upstream status %d", models.ErrQuoteUnavailable, qualified, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrQuoteUnavailable, qualified, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", models.ErrQuoteUnavailable, qualified, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no data for %s", models.ErrQuoteUnavailable, qualified)
	}

	meta := payload.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("%w: no market price for %s", models.ErrQuoteUnavailable, qualified)
	}

	quote := &Quote{
		Symbol:   symbol,
		Price:    decimal.NewFromFloat(meta.RegularMarketPrice),
		Currency: meta.Currency,
		AsOf:     time.Unix(meta.RegularMarketTime, 0),
	}
	if quote.AsOf.IsZero() || meta.RegularMarketTime == 0 {
		quote.AsOf = time.Now()
	}

	return quote, nil
}

// searchResponse mirrors the relevant slice of the Yahoo search payload.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

// SearchSymbols looks tickers up by symbol or company name. No hits is an
// empty result, not an error.
func (p *YahooProvider) SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error) {
	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0",
		p.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "findash/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn().Err(err).Str("query", query).Msg("symbol search failed")
		return nil, fmt.Errorf("%w: search %q: %v", models.ErrQuoteUnavailable, query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search %q: upstream status %d", models.ErrQuoteUnavailable, query, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", models.ErrQuoteUnavailable, query, err)
	}

	matches := make([]SymbolMatch, 0, len(payload.Quotes))
	for _, q := range payload.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		if name == "" {
			name = q.Symbol
		}
		matches = append(matches, SymbolMatch{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
		})
	}
	return matches, nil
}
