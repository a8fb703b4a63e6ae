package engine

import (
	"context"
	"time"
	"tradebook/types"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// marketValuePlaces is the rounding scale of every market value. Rounding is
// half away from zero (decimal.Round).
const marketValuePlaces = 4

// BuildView prices positions one at a time and combines them into a view.
func BuildView(ctx context.Context, positions []types.Position, lookup PriceLookup, now time.Time) types.PortfolioView {
	prices := make([]decimal.NullDecimal, len(positions))
	for i, pos := range positions {
		prices[i] = lookup.ResolvePrice(ctx, pos.Symbol, now)
	}
	return combine(positions, prices, now)
}

// BuildViewConcurrent resolves up to limit symbols at once. Aggregated
// positions already hold distinct symbols, so each symbol is looked up once.
func BuildViewConcurrent(ctx context.Context, positions []types.Position, lookup PriceLookup, now time.Time, limit int) types.PortfolioView {
	if limit <= 1 {
		return BuildView(ctx, positions, lookup, now)
	}
	prices := make([]decimal.NullDecimal, len(positions))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, pos := range positions {
		g.Go(func() error {
			prices[i] = lookup.ResolvePrice(ctx, pos.Symbol, now)
			return nil
		})
	}
	_ = g.Wait()
	return combine(positions, prices, now)
}

func combine(positions []types.Position, prices []decimal.NullDecimal, now time.Time) types.PortfolioView {
	view := types.PortfolioView{
		Positions:  make([]types.PositionSnapshot, 0, len(positions)),
		TotalValue: decimal.Zero,
		Time:       now,
	}
	for i, pos := range positions {
		row := types.PositionSnapshot{
			Symbol:       pos.Symbol,
			NetQuantity:  pos.NetQuantity,
			AveragePrice: pos.AveragePrice,
			CurrentPrice: prices[i],
		}
		row.MarketValue = marketValue(pos.NetQuantity, prices[i])
		// unknown market values count as zero in the total only
		if row.MarketValue.Valid {
			view.TotalValue = view.TotalValue.Add(row.MarketValue.Decimal)
		}
		view.Positions = append(view.Positions, row)
	}
	return view
}

func marketValue(quantity decimal.Decimal, price decimal.NullDecimal) decimal.NullDecimal {
	if !price.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(quantity.Mul(price.Decimal).Round(marketValuePlaces))
}
