package types

import (
	"github.com/shopspring/decimal"
)

// Position is derived from the ledger on every request and never stored.
type Position struct {
	Symbol       string          `json:"symbol"`
	NetQuantity  decimal.Decimal `json:"netQuantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

func (p Position) IsLong() bool {
	return p.NetQuantity.IsPositive()
}

func (p Position) IsShort() bool {
	return p.NetQuantity.IsNegative()
}
