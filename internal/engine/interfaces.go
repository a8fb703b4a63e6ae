package engine

import (
	"context"
	"time"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

// Ledger is the persisted trade history.
type Ledger interface {
	InsertTrade(ctx context.Context, trade types.TradeRecord) (types.TradeRecord, error)
	ListTrades(ctx context.Context) ([]types.TradeRecord, error)
	DeleteTrade(ctx context.Context, id string) error
}

// QuoteProvider fetches the latest raw price string for a symbol.
// Configured reports whether credentials are present; when it is false the
// provider must not be called.
type QuoteProvider interface {
	Configured() bool
	FetchQuote(ctx context.Context, symbol string) (string, error)
}

// PriceLookup resolves a current price. An invalid NullDecimal means unknown.
type PriceLookup interface {
	ResolvePrice(ctx context.Context, symbol string, now time.Time) decimal.NullDecimal
}
