package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TradeRecord struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Side       Side            `json:"type"`
	ExecutedAt time.Time       `json:"executedAt"`
}

func NewTradeRecord(
	id string,
	symbol string,
	quantity decimal.Decimal,
	price decimal.Decimal,
	side Side,
	executedAt time.Time,
) TradeRecord {
	return TradeRecord{
		ID:         id,
		Symbol:     NormalizeSymbol(symbol),
		Quantity:   quantity,
		Price:      price,
		Side:       side,
		ExecutedAt: executedAt,
	}
}

// NormalizeSymbol is the single grouping and cache key for an instrument.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SignedQuantity is +Quantity for buys and -Quantity for sells.
func (t TradeRecord) SignedQuantity() decimal.Decimal {
	if t.Side == SideTypeSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
