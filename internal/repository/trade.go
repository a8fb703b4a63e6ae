package repository

import (
	"context"
	"fmt"
	"time"
	sqlc "tradebook/internal/repository/sqlc/generated"
	"tradebook/types"
)

// InsertTrade stores a trade and returns it as persisted.
func (db *Database) InsertTrade(ctx context.Context, trade types.TradeRecord) (types.TradeRecord, error) {
	executedAt := trade.ExecutedAt.UTC()
	row, err := db.trades.InsertTrade(ctx, sqlc.InsertTradeParams{
		ID:         trade.ID,
		Symbol:     trade.Symbol,
		Quantity:   trade.Quantity,
		Price:      trade.Price,
		Side:       string(trade.Side),
		ExecutedAt: &executedAt,
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return types.TradeRecord{}, fmt.Errorf("trade %s: %w", trade.ID, ErrDuplicateTrade)
		}
		return types.TradeRecord{}, err
	}
	return convertTrade(row), nil
}

// ListTrades returns the whole ledger ordered by execution time.
func (db *Database) ListTrades(ctx context.Context) ([]types.TradeRecord, error) {
	rows, err := db.trades.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	return convertTrades(rows), nil
}

func (db *Database) DeleteTrade(ctx context.Context, id string) error {
	n, err := db.trades.DeleteTrade(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %s: %w", id, ErrTradeNotFound)
	}
	return nil
}

func convertTrades(daos []sqlc.Trade) []types.TradeRecord {
	trades := make([]types.TradeRecord, 0, len(daos))
	for _, dao := range daos {
		trades = append(trades, convertTrade(dao))
	}
	return trades
}

func convertTrade(dao sqlc.Trade) types.TradeRecord {
	var executedAt time.Time
	if dao.ExecutedAt != nil {
		executedAt = dao.ExecutedAt.UTC()
	}
	return types.TradeRecord{
		ID:         dao.ID,
		Symbol:     dao.Symbol,
		Quantity:   dao.Quantity,
		Price:      dao.Price,
		Side:       types.Side(dao.Side),
		ExecutedAt: executedAt,
	}
}
