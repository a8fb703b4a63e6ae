package engine

import (
	"context"
	"reflect"
	"testing"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

func priced(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestBuildView(t *testing.T) {
	tests := []struct {
		name       string
		positions  []types.Position
		prices     map[string]decimal.NullDecimal
		wantValues []decimal.NullDecimal
		wantTotal  decimal.Decimal
	}{
		{
			name:       "no positions",
			positions:  nil,
			wantValues: nil,
			wantTotal:  decimal.Zero,
		},
		{
			name: "unknown price contributes zero to total only",
			positions: []types.Position{
				{Symbol: "AAPL", NetQuantity: dec("10"), AveragePrice: dec("10")},
				{Symbol: "TSLA", NetQuantity: dec("3"), AveragePrice: dec("200")},
			},
			prices: map[string]decimal.NullDecimal{
				"AAPL": priced("15"),
			},
			wantValues: []decimal.NullDecimal{priced("150"), {}},
			wantTotal:  dec("150"),
		},
		{
			name: "short positions have negative value",
			positions: []types.Position{
				{Symbol: "AAPL", NetQuantity: dec("2"), AveragePrice: dec("100")},
				{Symbol: "TSLA", NetQuantity: dec("-1"), AveragePrice: dec("250")},
			},
			prices: map[string]decimal.NullDecimal{
				"AAPL": priced("110"),
				"TSLA": priced("240"),
			},
			wantValues: []decimal.NullDecimal{priced("220"), priced("-240")},
			wantTotal:  dec("-20"),
		},
		{
			name: "rounded to four places half away from zero",
			positions: []types.Position{
				{Symbol: "UP", NetQuantity: dec("1"), AveragePrice: dec("1")},
				{Symbol: "DOWN", NetQuantity: dec("-1"), AveragePrice: dec("1")},
				{Symbol: "KEEP", NetQuantity: dec("0.5"), AveragePrice: dec("1")},
			},
			prices: map[string]decimal.NullDecimal{
				"UP":   priced("2.00005"),
				"DOWN": priced("2.00005"),
				"KEEP": priced("3.00004"),
			},
			wantValues: []decimal.NullDecimal{priced("2.0001"), priced("-2.0001"), priced("1.5")},
			wantTotal:  dec("1.5"),
		},
		{
			name: "all unknown",
			positions: []types.Position{
				{Symbol: "AAPL", NetQuantity: dec("1"), AveragePrice: dec("1")},
			},
			prices:     map[string]decimal.NullDecimal{},
			wantValues: []decimal.NullDecimal{{}},
			wantTotal:  decimal.Zero,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &staticLookup{prices: tt.prices}
			got := BuildView(context.Background(), tt.positions, lookup, baseTime)

			if len(got.Positions) != len(tt.wantValues) {
				t.Fatalf("BuildView() rows = %d, want %d", len(got.Positions), len(tt.wantValues))
			}
			for i, want := range tt.wantValues {
				row := got.Positions[i]
				if row.MarketValue.Valid != want.Valid {
					t.Errorf("%s market value valid = %v, want %v", row.Symbol, row.MarketValue.Valid, want.Valid)
					continue
				}
				if row.MarketValue.Valid != row.CurrentPrice.Valid {
					t.Errorf("%s market value known = %v but price known = %v", row.Symbol, row.MarketValue.Valid, row.CurrentPrice.Valid)
				}
				if want.Valid && !row.MarketValue.Decimal.Equal(want.Decimal) {
					t.Errorf("%s market value = %s, want %s", row.Symbol, row.MarketValue.Decimal, want.Decimal)
				}
			}
			if !got.TotalValue.Equal(tt.wantTotal) {
				t.Errorf("BuildView() total = %s, want %s", got.TotalValue, tt.wantTotal)
			}
			if !got.Time.Equal(baseTime) {
				t.Errorf("BuildView() time = %v, want %v", got.Time, baseTime)
			}
		})
	}
}

func TestBuildViewLooksUpEachPositionOnce(t *testing.T) {
	positions := []types.Position{
		{Symbol: "AAPL", NetQuantity: dec("1"), AveragePrice: dec("1")},
		{Symbol: "MSFT", NetQuantity: dec("1"), AveragePrice: dec("1")},
	}
	lookup := &staticLookup{prices: map[string]decimal.NullDecimal{}}
	BuildView(context.Background(), positions, lookup, baseTime)

	if !reflect.DeepEqual(lookup.lookups, []string{"AAPL", "MSFT"}) {
		t.Errorf("lookups = %v, want [AAPL MSFT]", lookup.lookups)
	}
}

func TestBuildViewConcurrentMatchesSequential(t *testing.T) {
	provider := newMockQuoteProvider(map[string]string{
		"AAPL": "189.84", "MSFT": "411.22", "NVDA": "875.28", "AMZN": "178.15",
	})
	cache := newTestCache(provider, DefaultPriceTTL)
	positions := []types.Position{
		{Symbol: "AAPL", NetQuantity: dec("10"), AveragePrice: dec("150")},
		{Symbol: "MSFT", NetQuantity: dec("-2"), AveragePrice: dec("400")},
		{Symbol: "NVDA", NetQuantity: dec("0.5"), AveragePrice: dec("700")},
		{Symbol: "AMZN", NetQuantity: dec("3"), AveragePrice: dec("170")},
		{Symbol: "GONE", NetQuantity: dec("1"), AveragePrice: dec("1")},
	}
	ctx := context.Background()

	concurrent := BuildViewConcurrent(ctx, positions, cache, baseTime, 3)
	sequential := BuildView(ctx, positions, cache, baseTime)

	if !reflect.DeepEqual(concurrent, sequential) {
		t.Errorf("concurrent view %+v != sequential %+v", concurrent, sequential)
	}
	if !sequential.TotalValue.Equal(dec("1898.4").Sub(dec("822.44")).Add(dec("437.64")).Add(dec("534.45"))) {
		t.Errorf("total = %s", sequential.TotalValue)
	}
	if n := provider.totalCalls(); n != 5 {
		t.Errorf("fetches = %d, want one per symbol", n)
	}
}

func TestBuildViewIdempotent(t *testing.T) {
	provider := newMockQuoteProvider(map[string]string{"AAPL": "100"})
	cache := newTestCache(provider, DefaultPriceTTL)
	positions := []types.Position{
		{Symbol: "AAPL", NetQuantity: dec("1"), AveragePrice: dec("90")},
		{Symbol: "MISSING", NetQuantity: dec("1"), AveragePrice: dec("90")},
	}
	ctx := context.Background()

	first := BuildView(ctx, positions, cache, baseTime)
	second := BuildView(ctx, positions, cache, baseTime)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("BuildView() not idempotent: %+v vs %+v", first, second)
	}
}
