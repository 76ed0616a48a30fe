package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsage is the frozen record of one material consumed by a production run
type MaterialUsage struct {
	MaterialID   string          `json:"materialId"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Cost         decimal.Decimal `json:"cost"`
}

// Production is an immutable snapshot of one production run
type Production struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Quantity    int64           `json:"quantity"`
	Date        time.Time       `json:"date"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	CostPerUnit decimal.Decimal `json:"costPerUnit"`
	Consumption []MaterialUsage `json:"consumption,omitempty"`
	// Linked marks runs whose material transactions carry the production id. Deleting such a run
	// reverses exactly those transactions, even when there are none.
	Linked bool `json:"linked,omitempty"`
}

// NewProduction creates a validated Production from its consumption, deriving the cost fields
func NewProduction(productID string, quantity int64, date time.Time, consumption []MaterialUsage) (*Production, error) {
	if productID == "" {
		return nil, Invalidf("product id cannot be empty")
	}
	if quantity <= 0 {
		return nil, Invalidf("production quantity must be positive, got %d", quantity)
	}

	total := decimal.Zero
	for _, usage := range consumption {
		total = total.Add(usage.Cost)
	}

	return &Production{
		ProductID:   productID,
		Quantity:    quantity,
		Date:        date,
		TotalCost:   total,
		CostPerUnit: total.Div(decimal.NewFromInt(quantity)),
		Consumption: consumption,
	}, nil
}
