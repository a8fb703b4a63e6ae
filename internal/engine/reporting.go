package engine

import (
	"fmt"
	"io"
	"sync"
	"time"
	"tradebook/types"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const unknownPrice = "unknown"

type Report struct {
	// Meta
	Time        time.Time
	TotalTrades int

	// Position counts
	OpenPositions     int
	LongPositions     int
	ShortPositions    int
	PricedPositions   int
	UnpricedPositions int

	// Valuation
	TotalValue    decimal.Decimal
	CostBasis     decimal.Decimal
	UnrealizedPnL decimal.Decimal

	// Ledger flows
	GrossBought decimal.Decimal
	GrossSold   decimal.Decimal
	NetInvested decimal.Decimal
}

func generateReport(view types.PortfolioView, trades []types.TradeRecord) *Report {
	report := &Report{
		Time:          view.Time,
		TotalTrades:   len(trades),
		OpenPositions: len(view.Positions),
		TotalValue:    view.TotalValue,
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		report.LongPositions, report.ShortPositions = calcDirectionCounts(view.Positions, &wg)
	}()
	go func() {
		report.PricedPositions, report.UnpricedPositions = calcPricedCounts(view.Positions, &wg)
	}()
	go func() {
		report.CostBasis, report.UnrealizedPnL = calcCostBasisAndPnL(view.Positions, &wg)
	}()
	go func() {
		report.GrossBought, report.GrossSold = calcGrossFlows(trades, &wg)
	}()
	wg.Wait()

	report.NetInvested = report.GrossBought.Sub(report.GrossSold)
	return report
}

func calcDirectionCounts(rows []types.PositionSnapshot, wg *sync.WaitGroup) (long, short int) {
	defer wg.Done()
	for _, row := range rows {
		if row.NetQuantity.IsPositive() {
			long++
		} else {
			short++
		}
	}
	return long, short
}

func calcPricedCounts(rows []types.PositionSnapshot, wg *sync.WaitGroup) (priced, unpriced int) {
	defer wg.Done()
	for _, row := range rows {
		if row.Priced() {
			priced++
		} else {
			unpriced++
		}
	}
	return priced, unpriced
}

// calcCostBasisAndPnL values every open position at its average price. The
// unrealized figure only covers positions with a known market value.
func calcCostBasisAndPnL(rows []types.PositionSnapshot, wg *sync.WaitGroup) (decimal.Decimal, decimal.Decimal) {
	defer wg.Done()

	costBasis := decimal.Zero
	pnl := decimal.Zero
	for _, row := range rows {
		cost := row.NetQuantity.Mul(row.AveragePrice)
		costBasis = costBasis.Add(cost)
		if row.MarketValue.Valid {
			pnl = pnl.Add(row.MarketValue.Decimal.Sub(cost))
		}
	}
	return costBasis.Round(marketValuePlaces), pnl.Round(marketValuePlaces)
}

func calcGrossFlows(trades []types.TradeRecord, wg *sync.WaitGroup) (bought, sold decimal.Decimal) {
	defer wg.Done()

	bought, sold = decimal.Zero, decimal.Zero
	for _, tr := range trades {
		value := tr.Quantity.Mul(tr.Price)
		switch tr.Side {
		case types.SideTypeBuy:
			bought = bought.Add(value)
		case types.SideTypeSell:
			sold = sold.Add(value)
		}
	}
	return bought, sold
}

// PrintReport renders the summary and the per-position table as plain text.
func PrintReport(w io.Writer, report *Report, view types.PortfolioView, trades []types.TradeRecord, config *ReportingConfig) {
	if config == nil {
		config = NewReportingConfig("", false)
	}
	cur := config.currency

	fmt.Fprintln(w, "===== Portfolio Report =====")
	fmt.Fprintf(w, "As Of:                 %s\n", report.Time.Format(time.RFC3339))
	fmt.Fprintf(w, "Total Trades:          %d\n", report.TotalTrades)

	fmt.Fprintln(w, "\n-- Positions --")
	fmt.Fprintf(w, "Open:                  %d (%d long, %d short)\n", report.OpenPositions, report.LongPositions, report.ShortPositions)
	fmt.Fprintf(w, "Priced / Unknown:      %d / %d\n", report.PricedPositions, report.UnpricedPositions)

	fmt.Fprintln(w, "\n-- Valuation --")
	fmt.Fprintf(w, "Total Value:           %s\n", formatMoney(report.TotalValue, cur))
	fmt.Fprintf(w, "Cost Basis:            %s\n", formatMoney(report.CostBasis, cur))
	fmt.Fprintf(w, "Unrealized P&L:        %s\n", formatMoney(report.UnrealizedPnL, cur))

	fmt.Fprintln(w, "\n-- Ledger Flows --")
	fmt.Fprintf(w, "Gross Bought:          %s\n", formatMoney(report.GrossBought, cur))
	fmt.Fprintf(w, "Gross Sold:            %s\n", formatMoney(report.GrossSold, cur))
	fmt.Fprintf(w, "Net Invested:          %s\n", formatMoney(report.NetInvested, cur))

	fmt.Fprintln(w, "\n-- Holdings --")
	fmt.Fprintf(w, "%-10s %14s %14s %14s %18s\n", "SYMBOL", "QUANTITY", "AVG PRICE", "PRICE", "MARKET VALUE")
	for _, row := range view.Positions {
		fmt.Fprintf(w, "%-10s %14s %14s %14s %18s\n",
			row.Symbol,
			row.NetQuantity.String(),
			row.AveragePrice.StringFixed(marketValuePlaces),
			nullString(row.CurrentPrice),
			nullString(row.MarketValue),
		)
	}

	if config.printTrades {
		fmt.Fprintln(w, "\n-- Trades --")
		for _, tr := range trades {
			fmt.Fprintf(w, "%s  %-4s %-10s %s @ %s  (%s)\n",
				tr.ExecutedAt.Format(time.RFC3339), tr.Side, tr.Symbol, tr.Quantity, tr.Price, tr.ID)
		}
	}

	fmt.Fprintln(w, "============================")
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return unknownPrice
	}
	return d.Decimal.String()
}

// formatMoney rounds to the currency's minor unit and renders it with the
// currency's symbol. Unknown currency codes fall back to "<amount> <code>".
func formatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
