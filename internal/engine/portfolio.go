package engine

import (
	"errors"
	"fmt"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

var UnknownSideErr = types.UnknownSideErr
var InvalidTradeErr = errors.New("invalid trade record")

// tally accumulates one symbol's trades in ledger order.
type tally struct {
	netQuantity decimal.Decimal
	priceSum    decimal.Decimal
	count       int64
}

// Aggregate reduces a trade ledger into open positions.
//
// Positions come back in the order their symbol first appears in trades.
// The average price is the plain mean of every trade price for the symbol,
// buys and sells alike; it is not a cost basis. Symbols whose net quantity
// is exactly zero are left out.
func Aggregate(trades []types.TradeRecord) ([]types.Position, error) {
	order := make([]string, 0)
	tallies := make(map[string]*tally)

	for _, tr := range trades {
		if err := validateTrade(tr); err != nil {
			return nil, err
		}
		symbol := types.NormalizeSymbol(tr.Symbol)

		t := tallies[symbol]
		if t == nil {
			t = &tally{}
			tallies[symbol] = t
			order = append(order, symbol)
		}
		t.netQuantity = t.netQuantity.Add(tr.SignedQuantity())
		t.priceSum = t.priceSum.Add(tr.Price)
		t.count++
	}

	positions := make([]types.Position, 0, len(order))
	for _, symbol := range order {
		t := tallies[symbol]
		if t.netQuantity.IsZero() {
			continue
		}
		positions = append(positions, types.Position{
			Symbol:       symbol,
			NetQuantity:  t.netQuantity,
			AveragePrice: t.priceSum.Div(decimal.NewFromInt(t.count)),
		})
	}
	return positions, nil
}

func validateTrade(tr types.TradeRecord) error {
	if !tr.Side.Valid() {
		return fmt.Errorf("trade %s side %q: %w", tr.ID, tr.Side, UnknownSideErr)
	}
	if types.NormalizeSymbol(tr.Symbol) == "" {
		return fmt.Errorf("trade %s has no symbol: %w", tr.ID, InvalidTradeErr)
	}
	if !tr.Quantity.IsPositive() {
		return fmt.Errorf("trade %s quantity %s must be positive: %w", tr.ID, tr.Quantity, InvalidTradeErr)
	}
	if !tr.Price.IsPositive() {
		return fmt.Errorf("trade %s price %s must be positive: %w", tr.ID, tr.Price, InvalidTradeErr)
	}
	return nil
}
