// Package reports derives read-only views (dashboard, profit and loss, stock listings) from a snapshot
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/dto"
	"github.com/vsinha/bakeshop/pkg/application/services/costing"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// Window is a half-open time range [From, Until). A nil bound is open.
type Window struct {
	From  *time.Time
	Until *time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.Until != nil && !t.Before(*w.Until) {
		return false
	}
	return true
}

// WindowFor resolves a period against now, in now's location. Weeks start on Monday.
func WindowFor(period dto.Period, now time.Time) (Window, error) {
	day := startOfDay(now)
	var from, until time.Time
	switch period {
	case dto.PeriodToday:
		from, until = day, day.AddDate(0, 0, 1)
	case dto.PeriodWeek:
		sinceMonday := (int(day.Weekday()) + 6) % 7
		from = day.AddDate(0, 0, -sinceMonday)
		until = from.AddDate(0, 0, 7)
	case dto.PeriodMonth:
		from = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		until = from.AddDate(0, 1, 0)
	case dto.PeriodAll:
		return Window{}, nil
	default:
		return Window{}, entities.Invalidf("unknown period %q", period)
	}
	return Window{From: &from, Until: &until}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Financial summarises revenue and costs over a period. Every sale counts toward revenue,
// pre-orders included; material cost is the frozen cost of productions in the window.
func Financial(snapshot *state.Snapshot, period dto.Period, now time.Time) (*dto.FinancialSummary, error) {
	window, err := WindowFor(period, now)
	if err != nil {
		return nil, err
	}

	summary := &dto.FinancialSummary{
		Period:        period,
		From:          window.From,
		Until:         window.Until,
		Revenue:       decimal.Zero,
		MaterialCost:  decimal.Zero,
		OtherExpenses: decimal.Zero,
	}
	for _, sale := range snapshot.Sales {
		if window.Contains(sale.Date) {
			summary.SalesCount++
			summary.Revenue = summary.Revenue.Add(sale.TotalPrice)
		}
	}
	for _, p := range snapshot.Productions {
		if window.Contains(p.Date) {
			summary.MaterialCost = summary.MaterialCost.Add(p.TotalCost)
		}
	}
	for _, e := range snapshot.Expenses {
		if window.Contains(e.Date) {
			summary.OtherExpenses = summary.OtherExpenses.Add(e.Amount)
		}
	}
	summary.TotalExpense = summary.MaterialCost.Add(summary.OtherExpenses)
	summary.NetProfit = summary.Revenue.Sub(summary.TotalExpense)

	return summary, nil
}

// Dashboard builds the overview shown on the home screen
func Dashboard(snapshot *state.Snapshot, now time.Time) *dto.Dashboard {
	today, _ := WindowFor(dto.PeriodToday, now)
	month, _ := WindowFor(dto.PeriodMonth, now)

	d := &dto.Dashboard{
		Date:                now,
		TodayRevenue:        decimal.Zero,
		MonthRevenue:        decimal.Zero,
		MonthExpenses:       decimal.Zero,
		MonthProductionCost: decimal.Zero,
		LowStockMaterials:   snapshot.LowStockMaterials(),
		ProductCount:        len(snapshot.Products),
	}

	for _, sale := range snapshot.Sales {
		if today.Contains(sale.Date) {
			d.TodaySalesCount++
			d.TodayRevenue = d.TodayRevenue.Add(sale.TotalPrice)
		}
		if month.Contains(sale.Date) {
			d.MonthRevenue = d.MonthRevenue.Add(sale.TotalPrice)
		}
		if sale.IsPreOrder() {
			d.PendingPreOrderCount++
		}
	}
	for _, e := range snapshot.Expenses {
		if month.Contains(e.Date) {
			d.MonthExpenses = d.MonthExpenses.Add(e.Amount)
		}
	}
	for _, p := range snapshot.Productions {
		if month.Contains(p.Date) {
			d.MonthProductionCost = d.MonthProductionCost.Add(p.TotalCost)
		}
	}
	for _, p := range snapshot.Products {
		d.FinishedGoodsStock += p.Stock
	}
	d.EstimatedProfit = d.MonthRevenue.Sub(d.MonthExpenses).Sub(d.MonthProductionCost)

	return d
}

// MaterialStock lists every material with its stock flags
func MaterialStock(snapshot *state.Snapshot) []dto.StockLine {
	lines := make([]dto.StockLine, 0, len(snapshot.Materials))
	for _, m := range snapshot.Materials {
		lines = append(lines, dto.StockLine{
			ID:         m.ID,
			Name:       m.Name,
			Unit:       string(m.Unit),
			Stock:      m.Stock,
			MinStock:   m.MinStock,
			LowStock:   m.IsLowStock(),
			OutOfStock: m.IsOutOfStock(),
		})
	}
	return lines
}

// ProductStock lists every product with its HPP when it has a recipe
func ProductStock(snapshot *state.Snapshot) []dto.StockLine {
	lines := make([]dto.StockLine, 0, len(snapshot.Products))
	for _, p := range snapshot.Products {
		line := dto.StockLine{
			ID:         p.ID,
			Name:       p.Name,
			Unit:       string(entities.Piece),
			Stock:      decimal.NewFromInt(p.Stock),
			MinStock:   decimal.Zero,
			OutOfStock: p.Stock <= 0,
		}
		if uc, ok := costing.ComputeUnitCost(snapshot, p.ID); ok {
			line.UnitCost = &uc
		}
		lines = append(lines, line)
	}
	return lines
}
