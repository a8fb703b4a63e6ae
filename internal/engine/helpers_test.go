package engine

import (
	"context"
	"errors"
	"sync"
	"time"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

var baseTime = time.UnixMilli(1_700_000_000_000).UTC()

func newTrade(id, symbol string, side types.Side, qty, price string) types.TradeRecord {
	return types.TradeRecord{
		ID:         id,
		Symbol:     symbol,
		Quantity:   decimal.RequireFromString(qty),
		Price:      decimal.RequireFromString(price),
		Side:       side,
		ExecutedAt: baseTime,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// mockQuoteProvider counts calls per symbol and answers from a fixed table.
type mockQuoteProvider struct {
	mu         sync.Mutex
	configured bool
	prices     map[string]string
	errs       map[string]error
	calls      map[string]int
	release    chan struct{}
}

func newMockQuoteProvider(prices map[string]string) *mockQuoteProvider {
	return &mockQuoteProvider{
		configured: true,
		prices:     prices,
		errs:       make(map[string]error),
		calls:      make(map[string]int),
	}
}

func (m *mockQuoteProvider) Configured() bool { return m.configured }

func (m *mockQuoteProvider) FetchQuote(_ context.Context, symbol string) (string, error) {
	m.mu.Lock()
	m.calls[symbol]++
	release := m.release
	m.mu.Unlock()

	if release != nil {
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[symbol]; err != nil {
		return "", err
	}
	price, ok := m.prices[symbol]
	if !ok {
		return "", errors.New("symbol not found upstream")
	}
	return price, nil
}

func (m *mockQuoteProvider) callCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func (m *mockQuoteProvider) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// mockLedger keeps trades in insertion order.
type mockLedger struct {
	trades    []types.TradeRecord
	insertErr error
	listErr   error
}

func (m *mockLedger) InsertTrade(_ context.Context, trade types.TradeRecord) (types.TradeRecord, error) {
	if m.insertErr != nil {
		return types.TradeRecord{}, m.insertErr
	}
	m.trades = append(m.trades, trade)
	return trade, nil
}

func (m *mockLedger) ListTrades(_ context.Context) ([]types.TradeRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]types.TradeRecord(nil), m.trades...), nil
}

func (m *mockLedger) DeleteTrade(_ context.Context, id string) error {
	for i, t := range m.trades {
		if t.ID == id {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// staticLookup serves fixed prices and records lookups.
type staticLookup struct {
	mu      sync.Mutex
	prices  map[string]decimal.NullDecimal
	lookups []string
}

func (s *staticLookup) ResolvePrice(_ context.Context, symbol string, _ time.Time) decimal.NullDecimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, symbol)
	return s.prices[symbol]
}
