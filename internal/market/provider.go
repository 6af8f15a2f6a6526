package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/models"
)

// Quote is a single price observation for an exchange-qualified symbol.
type Quote struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	AsOf     time.Time       `json:"as_of"`
}

// SymbolMatch is one hit from a ticker search.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// QuoteProvider is the price oracle contract. Implementations return
// models.ErrQuoteUnavailable (possibly wrapped) for unknown symbols,
// upstream outages and timeouts. SearchSymbols returns an empty slice,
// not an error, when nothing matches.
type QuoteProvider interface {
	Name() string
	GetQuote(ctx context.Context, symbol string, exchange models.Exchange) (*Quote, error)
	SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error)
}

// QuerySymbol resolves the exchange-qualified ticker: NSE symbols get the
// ".NS" suffix, BSE ".BO", US symbols pass through unmodified.
func QuerySymbol(symbol string, exchange models.Exchange) string {
	switch exchange {
	case models.ExchangeNSE:
		return symbol + ".NS"
	case models.ExchangeBSE:
		return symbol + ".BO"
	default:
		return symbol
	}
}
