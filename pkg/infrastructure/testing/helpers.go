package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
)

// Now is the fixed clock used across tests: Wednesday 18 December 2024, 10:00 UTC
var Now = time.Date(2024, time.December, 18, 10, 0, 0, 0, time.UTC)

// D parses a decimal literal and panics on malformed input
func D(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// BuildNastarSnapshot returns the demo bakery state: five materials, Nastar Klasik (stock 10) and its recipe
func BuildNastarSnapshot() state.Snapshot {
	return seed.Demo()
}

// BuildNastarStore wraps the demo state in a store with deterministic ids ("id-1", "id-2", ...)
func BuildNastarStore() *state.Store {
	return state.NewStore(BuildNastarSnapshot(), state.NewSequenceGenerator("id"))
}

// BuildEmptyStore returns a store with no entities and deterministic ids
func BuildEmptyStore() *state.Store {
	return state.NewStore(state.Empty(), state.NewSequenceGenerator("id"))
}

// MaterialStock returns the stock of a material, or a negative sentinel when it does not exist
func MaterialStock(snapshot *state.Snapshot, materialID string) decimal.Decimal {
	if m, ok := snapshot.Material(materialID); ok {
		return m.Stock
	}
	return decimal.NewFromInt(-1)
}

// ProductStock returns the stock of a product, or -1 when it does not exist
func ProductStock(snapshot *state.Snapshot, productID string) int64 {
	if p, ok := snapshot.Product(productID); ok {
		return p.Stock
	}
	return -1
}

// MaterialStocks captures the stock of every material, keyed by id
func MaterialStocks(snapshot *state.Snapshot) map[string]decimal.Decimal {
	stocks := make(map[string]decimal.Decimal, len(snapshot.Materials))
	for _, m := range snapshot.Materials {
		stocks[m.ID] = m.Stock
	}
	return stocks
}

// NastarSale builds a sale line for quantity jars of Nastar at the normal price
func NastarSale(quantity int64) []entities.SaleItem {
	return []entities.SaleItem{
		{ProductID: seed.NastarID, Quantity: quantity, Price: decimal.NewFromInt(85000)},
	}
}
