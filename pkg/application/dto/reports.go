package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// Period selects the time window of a financial report
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// Valid reports whether p is a known period
func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return true
	default:
		return false
	}
}

// FinancialSummary is the profit and loss view of one period
type FinancialSummary struct {
	Period        Period          `json:"period"`
	From          *time.Time      `json:"from,omitempty"`
	Until         *time.Time      `json:"until,omitempty"`
	SalesCount    int             `json:"salesCount"`
	Revenue       decimal.Decimal `json:"revenue"`
	MaterialCost  decimal.Decimal `json:"materialCost"`
	OtherExpenses decimal.Decimal `json:"otherExpenses"`
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// Dashboard is the at-a-glance state of the shop
type Dashboard struct {
	Date                 time.Time           `json:"date"`
	TodayRevenue         decimal.Decimal     `json:"todayRevenue"`
	TodaySalesCount      int                 `json:"todaySalesCount"`
	MonthRevenue         decimal.Decimal     `json:"monthRevenue"`
	MonthExpenses        decimal.Decimal     `json:"monthExpenses"`
	MonthProductionCost  decimal.Decimal     `json:"monthProductionCost"`
	EstimatedProfit      decimal.Decimal     `json:"estimatedProfit"`
	LowStockMaterials    []entities.Material `json:"lowStockMaterials"`
	FinishedGoodsStock   int64               `json:"finishedGoodsStock"`
	ProductCount         int                 `json:"productCount"`
	PendingPreOrderCount int                 `json:"pendingPreOrderCount"`
}

// StockLine is one row of a stock listing
type StockLine struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Stock      decimal.Decimal `json:"stock"`
	MinStock   decimal.Decimal `json:"minStock"`
	LowStock   bool            `json:"lowStock"`
	OutOfStock bool            `json:"outOfStock"`
	UnitCost   *UnitCost       `json:"unitCost,omitempty"`
}
