package repository

import (
	"context"
	"errors"
	"testing"
	"time"
	sqlc "tradebook/internal/repository/sqlc/generated"
	"tradebook/types"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type mockTradesRepository struct {
	insertErr error
	listErr   error
	deleted   int64
	rows      []sqlc.Trade
}

func (m mockTradesRepository) InsertTrade(_ context.Context, arg sqlc.InsertTradeParams) (sqlc.Trade, error) {
	if m.insertErr != nil {
		return sqlc.Trade{}, m.insertErr
	}
	created := time.UnixMilli(1)
	return sqlc.Trade{
		ID:         arg.ID,
		Symbol:     arg.Symbol,
		Quantity:   arg.Quantity,
		Price:      arg.Price,
		Side:       arg.Side,
		ExecutedAt: arg.ExecutedAt,
		CreatedAt:  &created,
	}, nil
}

func (m mockTradesRepository) ListTrades(_ context.Context) ([]sqlc.Trade, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rows, nil
}

func (m mockTradesRepository) DeleteTrade(_ context.Context, _ string) (int64, error) {
	return m.deleted, nil
}

func TestDatabase_InsertTrade(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name    string
		sqlcErr error
		wantErr error
	}{
		{"should throw ErrDuplicateTrade", &pgconn.PgError{Code: pgErrUniqueViolation}, ErrDuplicateTrade},
		{"should pass through other errors", boom, boom},
		{"should return stored trade", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{trades: mockTradesRepository{insertErr: tt.sqlcErr}}
			at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
			trade := types.NewTradeRecord("t-1", "aapl", decimal.NewFromInt(2), decimal.RequireFromString("10.5"), types.SideTypeBuy, at)

			got, err := db.InsertTrade(context.Background(), trade)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("InsertTrade() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("InsertTrade() error = %v", err)
			}
			if got.Symbol != "AAPL" || got.Side != types.SideTypeBuy {
				t.Errorf("InsertTrade() = %+v", got)
			}
			if got.ExecutedAt.Location() != time.UTC || !got.ExecutedAt.Equal(at) {
				t.Errorf("InsertTrade() executedAt = %v, want %v in UTC", got.ExecutedAt, at)
			}
		})
	}
}

func TestDatabase_DeleteTrade(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
		wantErr error
	}{
		{"should throw ErrTradeNotFound", 0, ErrTradeNotFound},
		{"should delete", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{trades: mockTradesRepository{deleted: tt.deleted}}
			err := db.DeleteTrade(context.Background(), "t-1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteTrade() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabase_ListTrades(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	db := &Database{trades: mockTradesRepository{rows: []sqlc.Trade{
		{ID: "t-1", Symbol: "AAPL", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100), Side: "BUY", ExecutedAt: &at},
		{ID: "t-2", Symbol: "MSFT", Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(50), Side: "SELL"},
	}}}

	got, err := db.ListTrades(context.Background())
	if err != nil {
		t.Fatalf("ListTrades() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListTrades() len = %d, want 2", len(got))
	}
	if got[0].Side != types.SideTypeBuy || !got[0].ExecutedAt.Equal(at) {
		t.Errorf("ListTrades()[0] = %+v", got[0])
	}
	if got[1].Side != types.SideTypeSell || !got[1].ExecutedAt.IsZero() {
		t.Errorf("ListTrades()[1] = %+v", got[1])
	}

	boom := errors.New("timeout")
	db = &Database{trades: mockTradesRepository{listErr: boom}}
	if _, err := db.ListTrades(context.Background()); !errors.Is(err, boom) {
		t.Errorf("ListTrades() error = %v, want %v", err, boom)
	}
}
