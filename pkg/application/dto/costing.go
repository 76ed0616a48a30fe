package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
)

// Requirement is the amount of one material a production run needs, priced at the current material price
type Requirement struct {
	MaterialID       string          `json:"materialId"`
	MaterialName     string          `json:"materialName"`
	Unit             entities.Unit   `json:"unit"`
	QuantityNeeded   decimal.Decimal `json:"quantityNeeded"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit"`
	CostContribution decimal.Decimal `json:"costContribution"`
	Available        decimal.Decimal `json:"available"`
}

// Sufficient reports whether current stock covers the requirement
func (r Requirement) Sufficient() bool {
	return r.Available.GreaterThanOrEqual(r.QuantityNeeded)
}

// UnitCost is the material cost (HPP) of one unit of a product
type UnitCost struct {
	ProductID string          `json:"productId"`
	Yield     decimal.Decimal `json:"yield"`
	BatchCost decimal.Decimal `json:"batchCost"`
	PerUnit   decimal.Decimal `json:"perUnit"`
}

// ProductionCheck is the outcome of validating a production request against current stock
type ProductionCheck struct {
	ProductID    string               `json:"productId"`
	Quantity     int64                `json:"quantity"`
	Requirements []Requirement        `json:"requirements"`
	TotalCost    decimal.Decimal      `json:"totalCost"`
	CostPerUnit  decimal.Decimal      `json:"costPerUnit"`
	Shortfalls   []entities.Shortfall `json:"shortfalls"`
}

// CanProduce reports whether no material is short
func (c *ProductionCheck) CanProduce() bool {
	return len(c.Shortfalls) == 0
}
