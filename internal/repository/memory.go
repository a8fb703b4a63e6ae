package repository

import (
	"context"
	"sort"
	"sync"
	"tradebook/types"
)

// MemoryLedger is an in-memory trade ledger for tests and throwaway runs.
type MemoryLedger struct {
	mu     sync.RWMutex
	trades map[string]memoryTrade
	seq    int64
}

type memoryTrade struct {
	trade types.TradeRecord
	seq   int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		trades: make(map[string]memoryTrade),
	}
}

// InsertTrade adds a trade. Returns ErrDuplicateTrade if the id exists.
func (m *MemoryLedger) InsertTrade(_ context.Context, trade types.TradeRecord) (types.TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.trades[trade.ID]; exists {
		return types.TradeRecord{}, ErrDuplicateTrade
	}
	m.seq++
	trade.ExecutedAt = trade.ExecutedAt.UTC()
	m.trades[trade.ID] = memoryTrade{trade: trade, seq: m.seq}
	return trade, nil
}

// ListTrades orders by execution time, ties broken by insertion order.
func (m *MemoryLedger) ListTrades(_ context.Context) ([]types.TradeRecord, error) {
	m.mu.RLock()
	rows := make([]memoryTrade, 0, len(m.trades))
	for _, t := range m.trades {
		rows = append(rows, t)
	}
	m.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].trade.ExecutedAt.Equal(rows[j].trade.ExecutedAt) {
			return rows[i].trade.ExecutedAt.Before(rows[j].trade.ExecutedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	trades := make([]types.TradeRecord, 0, len(rows))
	for _, r := range rows {
		trades = append(trades, r.trade)
	}
	return trades, nil
}

func (m *MemoryLedger) DeleteTrade(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.trades[id]; !exists {
		return ErrTradeNotFound
	}
	delete(m.trades, id)
	return nil
}
