package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioView struct {
	Positions  []PositionSnapshot `json:"positions"`
	TotalValue decimal.Decimal    `json:"totalValue"`
	Time       time.Time          `json:"time"`
}

// PositionSnapshot is one row of the view. CurrentPrice and MarketValue are
// invalid (JSON null) when the price could not be resolved.
type PositionSnapshot struct {
	Symbol       string              `json:"symbol"`
	NetQuantity  decimal.Decimal     `json:"netQuantity"`
	AveragePrice decimal.Decimal     `json:"averagePrice"`
	CurrentPrice decimal.NullDecimal `json:"currentPrice"`
	MarketValue  decimal.NullDecimal `json:"marketValue"`
}

func (p PositionSnapshot) Priced() bool {
	return p.CurrentPrice.Valid
}
