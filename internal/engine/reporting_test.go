package engine

import (
	"bytes"
	"strings"
	"testing"
	"tradebook/types"

	"github.com/shopspring/decimal"
)

func testView() types.PortfolioView {
	return types.PortfolioView{
		Time: baseTime,
		Positions: []types.PositionSnapshot{
			{Symbol: "AAPL", NetQuantity: dec("10"), AveragePrice: dec("10"), CurrentPrice: priced("15"), MarketValue: priced("150")},
			{Symbol: "TSLA", NetQuantity: dec("-2"), AveragePrice: dec("200")},
		},
		TotalValue: dec("150"),
	}
}

func TestGenerateReport(t *testing.T) {
	trades := []types.TradeRecord{
		newTrade("1", "AAPL", types.SideTypeBuy, "10", "10"),
		newTrade("2", "TSLA", types.SideTypeSell, "2", "200"),
	}
	report := generateReport(testView(), trades)

	tests := []struct {
		name string
		got  decimal.Decimal
		want decimal.Decimal
	}{
		{"total value", report.TotalValue, dec("150")},
		{"cost basis", report.CostBasis, dec("-300")},
		{"unrealized pnl", report.UnrealizedPnL, dec("50")},
		{"gross bought", report.GrossBought, dec("100")},
		{"gross sold", report.GrossSold, dec("400")},
		{"net invested", report.NetInvested, dec("-300")},
	}
	for _, tt := range tests {
		if !tt.got.Equal(tt.want) {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}

	if report.TotalTrades != 2 || report.OpenPositions != 2 {
		t.Errorf("counts = %d trades / %d positions", report.TotalTrades, report.OpenPositions)
	}
	if report.LongPositions != 1 || report.ShortPositions != 1 {
		t.Errorf("long/short = %d/%d, want 1/1", report.LongPositions, report.ShortPositions)
	}
	if report.PricedPositions != 1 || report.UnpricedPositions != 1 {
		t.Errorf("priced/unpriced = %d/%d, want 1/1", report.PricedPositions, report.UnpricedPositions)
	}
}

func TestPrintReport(t *testing.T) {
	view := testView()
	trades := []types.TradeRecord{newTrade("t-1", "AAPL", types.SideTypeBuy, "10", "10")}
	report := generateReport(view, trades)

	var buf bytes.Buffer
	PrintReport(&buf, report, view, trades, NewReportingConfig("USD", true))
	out := buf.String()

	for _, want := range []string{
		"Total Value:           $150.00",
		"Priced / Unknown:      1 / 1",
		"unknown",
		"t-1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintReport() output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"150", "USD", "$150.00"},
		{"1234.565", "USD", "$1,234.57"},
		{"-20", "USD", "-$20.00"},
		{"12.5", "XYZ", "12.50 XYZ"},
	}
	for _, tt := range tests {
		if got := formatMoney(dec(tt.amount), tt.code); got != tt.want {
			t.Errorf("formatMoney(%s, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}
