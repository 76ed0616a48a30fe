package state

import (
	"slices"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// MissingLabel stands in for the name of an entity that a weak reference no longer resolves to
const MissingLabel = "Unknown"

// Snapshot is the whole entity store. It serialises to the document persisted by the storage adapters.
type Snapshot struct {
	Materials            []entities.Material            `json:"materials"`
	MaterialTransactions []entities.MaterialTransaction `json:"materialTransactions"`
	Products             []entities.Product             `json:"products"`
	Recipes              []entities.Recipe              `json:"recipes"`
	Productions          []entities.Production          `json:"productions"`
	Sales                []entities.Sale                `json:"sales"`
	Expenses             []entities.Expense             `json:"expenses"`
	AppSettings          entities.AppSettings           `json:"appSettings"`
}

// Empty returns a snapshot with no entities and default settings
func Empty() Snapshot {
	return Snapshot{
		Materials:            []entities.Material{},
		MaterialTransactions: []entities.MaterialTransaction{},
		Products:             []entities.Product{},
		Recipes:              []entities.Recipe{},
		Productions:          []entities.Production{},
		Sales:                []entities.Sale{},
		Expenses:             []entities.Expense{},
		AppSettings:          entities.DefaultSettings(),
	}
}

// Clone returns a deep copy; nothing in the copy aliases the receiver
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Materials:            slices.Clone(s.Materials),
		MaterialTransactions: slices.Clone(s.MaterialTransactions),
		Products:             make([]entities.Product, len(s.Products)),
		Recipes:              make([]entities.Recipe, len(s.Recipes)),
		Productions:          make([]entities.Production, len(s.Productions)),
		Sales:                make([]entities.Sale, len(s.Sales)),
		Expenses:             slices.Clone(s.Expenses),
		AppSettings:          s.AppSettings,
	}
	if c.Materials == nil {
		c.Materials = []entities.Material{}
	}
	if c.MaterialTransactions == nil {
		c.MaterialTransactions = []entities.MaterialTransaction{}
	}
	if c.Expenses == nil {
		c.Expenses = []entities.Expense{}
	}
	for i, p := range s.Products {
		p.WholesalePrices = slices.Clone(p.WholesalePrices)
		c.Products[i] = p
	}
	for i, r := range s.Recipes {
		r.Items = slices.Clone(r.Items)
		c.Recipes[i] = r
	}
	for i, p := range s.Productions {
		p.Consumption = slices.Clone(p.Consumption)
		c.Productions[i] = p
	}
	for i, sale := range s.Sales {
		sale.Items = slices.Clone(sale.Items)
		if sale.DeliveryDate != nil {
			d := *sale.DeliveryDate
			sale.DeliveryDate = &d
		}
		c.Sales[i] = sale
	}
	return c
}

// Material looks up a material by id
func (s *Snapshot) Material(id string) (*entities.Material, bool) {
	i := slices.IndexFunc(s.Materials, func(m entities.Material) bool { return m.ID == id })
	if i < 0 {
		return nil, false
	}
	return &s.Materials[i], true
}

// MaterialTransaction looks up a material transaction by id
func (s *Snapshot) MaterialTransaction(id string) (*entities.MaterialTransaction, bool) {
	i := slices.IndexFunc(s.MaterialTransactions, func(t entities.MaterialTransaction) bool { return t.ID == id })
	if i < 0 {
		return nil, false
	}
	return &s.MaterialTransactions[i], true
}

// Product looks up a product by id
func (s *Snapshot) Product(id string) (*entities.Product, bool) {
	i := slices.IndexFunc(s.Products, func(p entities.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, false
	}
	return &s.Products[i], true
}

// RecipeFor looks up the recipe of a product
func (s *Snapshot) RecipeFor(productID string) (*entities.Recipe, bool) {
	i := slices.IndexFunc(s.Recipes, func(r entities.Recipe) bool { return r.ProductID == productID })
	if i < 0 {
		return nil, false
	}
	return &s.Recipes[i], true
}

// Production looks up a production by id
func (s *Snapshot) Production(id string) (*entities.Production, bool) {
	i := slices.IndexFunc(s.Productions, func(p entities.Production) bool { return p.ID == id })
	if i < 0 {
		return nil, false
	}
	return &s.Productions[i], true
}

// Sale looks up a sale by id
func (s *Snapshot) Sale(id string) (*entities.Sale, bool) {
	i := slices.IndexFunc(s.Sales, func(sale entities.Sale) bool { return sale.ID == id })
	if i < 0 {
		return nil, false
	}
	return &s.Sales[i], true
}

// Expense looks up an expense by id
func (s *Snapshot) Expense(id string) (*entities.Expense, bool) {
	i := slices.IndexFunc(s.Expenses, func(e entities.Expense) bool { return e.ID == id })
	if i < 0 {
		return nil, false
	}
	return &s.Expenses[i], true
}

// MaterialName returns the material's name or MissingLabel
func (s *Snapshot) MaterialName(id string) string {
	if m, ok := s.Material(id); ok {
		return m.Name
	}
	return MissingLabel
}

// ProductName returns the product's name or MissingLabel
func (s *Snapshot) ProductName(id string) string {
	if p, ok := s.Product(id); ok {
		return p.Name
	}
	return MissingLabel
}

// TransactionsFor returns the transactions recorded against a material, oldest first
func (s *Snapshot) TransactionsFor(materialID string) []entities.MaterialTransaction {
	var txs []entities.MaterialTransaction
	for _, t := range s.MaterialTransactions {
		if t.MaterialID == materialID {
			txs = append(txs, t)
		}
	}
	return txs
}

// TransactionsOfProduction returns the material transactions posted by a production
func (s *Snapshot) TransactionsOfProduction(productionID string) []entities.MaterialTransaction {
	if productionID == "" {
		return nil
	}
	var txs []entities.MaterialTransaction
	for _, t := range s.MaterialTransactions {
		if t.SourceProductionID == productionID {
			txs = append(txs, t)
		}
	}
	return txs
}

// LowStockMaterials returns every material at or below its reorder threshold
func (s *Snapshot) LowStockMaterials() []entities.Material {
	low := []entities.Material{}
	for i := range s.Materials {
		if s.Materials[i].IsLowStock() {
			low = append(low, s.Materials[i])
		}
	}
	return low
}

// Customers returns the distinct named customers in order of first sale
func (s *Snapshot) Customers() []string {
	seen := make(map[string]bool)
	var names []string
	for _, sale := range s.Sales {
		name := sale.CustomerName
		if name == "" || name == entities.DefaultCustomer || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
