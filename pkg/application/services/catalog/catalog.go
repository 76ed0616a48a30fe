// Package catalog maintains the master data of the shop: materials, products, expenses and settings.
// Stock-moving operations live in the ledger, production and sales packages.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/services/ledger"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// MaterialUpdate is a partial change to a material; nil fields keep their current value.
// Stock is included so a stock-take can overwrite the balance directly.
type MaterialUpdate struct {
	Name         *string
	Unit         *entities.Unit
	PricePerUnit *decimal.Decimal
	Stock        *decimal.Decimal
	MinStock     *decimal.Decimal
}

// ProductUpdate is a partial change to a product
type ProductUpdate struct {
	Name            *string
	Price           *decimal.Decimal
	WholesalePrices []entities.ProductPrice
	Stock           *int64
	ImageURL        *string
}

// ExpenseUpdate is a partial change to an expense
type ExpenseUpdate struct {
	Date     *time.Time
	Category *string
	Amount   *decimal.Decimal
	Note     *string
}

// AddMaterial stores a new material under a fresh id
func AddMaterial(st *state.Store, m entities.Material) (*entities.Material, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ID = st.NewID()
	st.Materials = append(st.Materials, m)
	return &m, nil
}

// UpdateMaterial applies the set fields of upd to a material, validating the result
func UpdateMaterial(st *state.Store, id string, upd MaterialUpdate) (*entities.Material, error) {
	found, ok := st.Material(id)
	if !ok {
		return nil, entities.NotFoundf("material", id)
	}
	m := *found
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Unit != nil {
		m.Unit = *upd.Unit
	}
	if upd.PricePerUnit != nil {
		m.PricePerUnit = *upd.PricePerUnit
	}
	if upd.Stock != nil {
		m.Stock = *upd.Stock
	}
	if upd.MinStock != nil {
		m.MinStock = *upd.MinStock
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	*found = m
	return &m, nil
}

// DeleteMaterial cascades through the ledger
func DeleteMaterial(st *state.Store, id string) error {
	return ledger.DeleteMaterial(st, id)
}

// AddProduct stores a new product under a fresh id
func AddProduct(st *state.Store, p entities.Product) (*entities.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = st.NewID()
	st.Products = append(st.Products, p)
	return &p, nil
}

// UpdateProduct applies the set fields of upd to a product, validating the result
func UpdateProduct(st *state.Store, id string, upd ProductUpdate) (*entities.Product, error) {
	found, ok := st.Product(id)
	if !ok {
		return nil, entities.NotFoundf("product", id)
	}
	p := *found
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.WholesalePrices != nil {
		p.WholesalePrices = append([]entities.ProductPrice(nil), upd.WholesalePrices...)
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	*found = p
	return &p, nil
}

// DeleteProduct removes the product and its recipe. Sales and productions keep their dangling reference.
func DeleteProduct(st *state.Store, id string) error {
	if !st.RemoveProduct(id) {
		return entities.NotFoundf("product", id)
	}
	st.RemoveRecipeFor(id)
	return nil
}

// AddExpense stores a new expense under a fresh id
func AddExpense(st *state.Store, e entities.Expense) (*entities.Expense, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.ID = st.NewID()
	st.Expenses = append(st.Expenses, e)
	return &e, nil
}

// UpdateExpense applies the set fields of upd to an expense, validating the result
func UpdateExpense(st *state.Store, id string, upd ExpenseUpdate) (*entities.Expense, error) {
	found, ok := st.Expense(id)
	if !ok {
		return nil, entities.NotFoundf("expense", id)
	}
	e := *found
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
	}
	if upd.Note != nil {
		e.Note = *upd.Note
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	*found = e
	return &e, nil
}

// DeleteExpense removes an expense
func DeleteExpense(st *state.Store, id string) error {
	if !st.RemoveExpense(id) {
		return entities.NotFoundf("expense", id)
	}
	return nil
}

// UpdateSettings replaces the branding; an empty app name keeps the current one
func UpdateSettings(st *state.Store, settings entities.AppSettings) entities.AppSettings {
	if settings.AppName == "" {
		settings.AppName = st.AppSettings.AppName
	}
	st.AppSettings = settings
	return settings
}
