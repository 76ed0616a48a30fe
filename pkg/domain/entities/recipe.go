package entities

import "github.com/shopspring/decimal"

// RecipeItem is the amount of one material used per recipe batch
type RecipeItem struct {
	MaterialID string          `json:"materialId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Recipe describes how one batch of a product is made
type Recipe struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Yield     decimal.Decimal `json:"yield"`
	Items     []RecipeItem    `json:"items"`
}

// NewRecipeItem creates a validated RecipeItem
func NewRecipeItem(materialID string, quantity decimal.Decimal) (*RecipeItem, error) {
	if materialID == "" {
		return nil, Invalidf("recipe item material id cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, Invalidf("recipe item quantity must be positive, got %s", quantity)
	}
	return &RecipeItem{MaterialID: materialID, Quantity: quantity}, nil
}

// EffectiveYield returns the yield used for scaling; a zero yield counts as one batch
func (r *Recipe) EffectiveYield() decimal.Decimal {
	if !r.Yield.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return r.Yield
}

// Multiplier returns how many batches are needed to produce quantity units
func (r *Recipe) Multiplier(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Div(r.EffectiveYield())
}

// Uses reports whether the recipe references the material
func (r *Recipe) Uses(materialID string) bool {
	for _, item := range r.Items {
		if item.MaterialID == materialID {
			return true
		}
	}
	return false
}
