package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

var MissingColumnErr = errors.New("missing required column")

// ReadTradesCSV parses trades written by WriteTradesCSV. Columns are matched
// by header name, so their order does not matter; id and executed_at may be
// left empty and are assigned when the trade is recorded.
func ReadTradesCSV(r io.Reader) ([]types.TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"symbol", "type", "quantity", "price"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: %w", name, MissingColumnErr)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var trades []types.TradeRecord
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		side, err := types.ParseSide(field(record, "type"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quantity, err := decimal.NewFromString(field(record, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("line %d quantity: %w", line, err)
		}
		price, err := decimal.NewFromString(field(record, "price"))
		if err != nil {
			return nil, fmt.Errorf("line %d price: %w", line, err)
		}
		var executedAt time.Time
		if raw := field(record, "executed_at"); raw != "" {
			executedAt, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("line %d executed_at: %w", line, err)
			}
		}

		trade := types.NewTradeRecord(field(record, "id"), field(record, "symbol"), quantity, price, side, executedAt)
		if err := validateTrade(trade); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, trade)
	}
	return trades, nil
}
