package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is the unit of measure a material is stocked and priced in
type Unit string

const (
	Gram  Unit = "gram"
	Kilo  Unit = "kg"
	Piece Unit = "pcs"
	Liter Unit = "liter"
	Milli Unit = "ml"
)

// Units lists the accepted unit vocabulary
var Units = []Unit{Gram, Kilo, Piece, Liter, Milli}

// Valid reports whether u belongs to the unit vocabulary
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Material is a raw material held in stock
type Material struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         Unit            `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Stock        decimal.Decimal `json:"stock"`
	MinStock     decimal.Decimal `json:"minStock"`
}

// NewMaterial creates a validated Material without an ID
func NewMaterial(name string, unit Unit, pricePerUnit, stock, minStock decimal.Decimal) (*Material, error) {
	m := &Material{
		Name:         name,
		Unit:         unit,
		PricePerUnit: pricePerUnit,
		Stock:        stock,
		MinStock:     minStock,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the editable fields of a material. Stock may be negative.
func (m *Material) Validate() error {
	if m.Name == "" {
		return Invalidf("material name cannot be empty")
	}
	if !m.Unit.Valid() {
		return Invalidf("unknown unit %q", m.Unit)
	}
	if m.PricePerUnit.IsNegative() {
		return Invalidf("price per unit cannot be negative, got %s", m.PricePerUnit)
	}
	if m.MinStock.IsNegative() {
		return Invalidf("minimum stock cannot be negative, got %s", m.MinStock)
	}
	return nil
}

// IsLowStock reports whether stock has reached the reorder threshold
func (m *Material) IsLowStock() bool {
	return m.Stock.LessThanOrEqual(m.MinStock)
}

// IsOutOfStock reports whether nothing usable is left
func (m *Material) IsOutOfStock() bool {
	return !m.Stock.IsPositive()
}

// TransactionType is the direction of a stock movement
type TransactionType string

const (
	In  TransactionType = "in"
	Out TransactionType = "out"
)

// Delta returns the signed stock change a movement of quantity causes
func (t TransactionType) Delta(quantity decimal.Decimal) decimal.Decimal {
	if t == Out {
		return quantity.Neg()
	}
	return quantity
}

// MaterialTransaction records one stock movement of a material
type MaterialTransaction struct {
	ID                 string          `json:"id"`
	MaterialID         string          `json:"materialId"`
	Type               TransactionType `json:"type"`
	Quantity           decimal.Decimal `json:"quantity"`
	Date               time.Time       `json:"date"`
	Note               string          `json:"note"`
	SourceProductionID string          `json:"sourceProductionId,omitempty"`
}

// NewMaterialTransaction creates a validated MaterialTransaction without an ID
func NewMaterialTransaction(materialID string, txType TransactionType, quantity decimal.Decimal, date time.Time, note string) (*MaterialTransaction, error) {
	if materialID == "" {
		return nil, Invalidf("material id cannot be empty")
	}
	if txType != In && txType != Out {
		return nil, Invalidf("transaction type must be %q or %q, got %q", In, Out, txType)
	}
	if !quantity.IsPositive() {
		return nil, Invalidf("quantity must be positive, got %s", quantity)
	}

	return &MaterialTransaction{
		MaterialID: materialID,
		Type:       txType,
		Quantity:   quantity,
		Date:       date,
		Note:       note,
	}, nil
}
