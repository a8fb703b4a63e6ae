package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

var tradesHeader = []string{
	"id",
	"symbol",
	"type", // "BUY" or "SELL"
	"quantity",
	"price",
	"executed_at", // RFC3339
}

var portfolioHeader = []string{
	"symbol",
	"net_quantity",
	"average_price",
	"current_price", // empty when unknown
	"market_value",  // empty when unknown
}

// WriteTradesCSVFile writes trades to a CSV file at the given path.
func WriteTradesCSVFile(path string, trades []types.TradeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return WriteTradesCSV(f, trades)
}

// WriteTradesCSV writes trades to any io.Writer in the format ReadTradesCSV
// accepts.
func WriteTradesCSV(w io.Writer, trades []types.TradeRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(tradesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.ID,
			t.Symbol,
			string(t.Side),
			t.Quantity.String(),
			t.Price.String(),
			t.ExecutedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WritePortfolioCSV writes one row per open position.
func WritePortfolioCSV(w io.Writer, view types.PortfolioView) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(portfolioHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range view.Positions {
		record := []string{
			row.Symbol,
			row.NetQuantity.String(),
			row.AveragePrice.String(),
			csvNull(row.CurrentPrice),
			csvNull(row.MarketValue),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
