package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradebook/types"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// sqliteTimeLayout is fixed width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id          TEXT PRIMARY KEY,
	symbol      TEXT NOT NULL,
	quantity    TEXT NOT NULL,
	price       TEXT NOT NULL,
	side        TEXT NOT NULL CHECK (side IN ('BUY', 'SELL')),
	executed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_executed_at ON trades(executed_at);
`

// SQLiteLedger stores the ledger in a single SQLite file. Decimals are kept
// as text to avoid float rounding.
type SQLiteLedger struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	// One writer at a time; SQLite would otherwise answer SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

func (s *SQLiteLedger) InsertTrade(ctx context.Context, trade types.TradeRecord) (types.TradeRecord, error) {
	trade.ExecutedAt = trade.ExecutedAt.UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, symbol, quantity, price, side, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		trade.ID, trade.Symbol, trade.Quantity.String(), trade.Price.String(),
		string(trade.Side), trade.ExecutedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return types.TradeRecord{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.TradeRecord{}, err
	}
	if n == 0 {
		return types.TradeRecord{}, fmt.Errorf("trade %s: %w", trade.ID, ErrDuplicateTrade)
	}
	return trade, nil
}

func (s *SQLiteLedger) ListTrades(ctx context.Context) ([]types.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, quantity, price, side, executed_at
		FROM trades ORDER BY executed_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []types.TradeRecord
	for rows.Next() {
		var (
			t                           types.TradeRecord
			quantity, price, executedAt string
			side                        string
		)
		if err := rows.Scan(&t.ID, &t.Symbol, &quantity, &price, &side, &executedAt); err != nil {
			return nil, err
		}
		if t.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("trade %s quantity: %w", t.ID, err)
		}
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("trade %s price: %w", t.ID, err)
		}
		if t.ExecutedAt, err = time.Parse(sqliteTimeLayout, executedAt); err != nil {
			return nil, fmt.Errorf("trade %s executed_at: %w", t.ID, err)
		}
		t.Side = types.Side(side)
		results = append(results, t)
	}
	return results, rows.Err()
}

func (s *SQLiteLedger) DeleteTrade(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %s: %w", id, ErrTradeNotFound)
	}
	return nil
}
