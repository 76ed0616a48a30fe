// Package costing explodes recipes into material requirements and prices them (HPP).
package costing

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/dto"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/services"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// UpsertRecipe replaces the recipe of a product, or creates it when the product has none.
// It returns the recipe id, which survives replacement.
func UpsertRecipe(st *state.Store, productID string, items []entities.RecipeItem, yield decimal.Decimal) (string, error) {
	if err := services.ValidateRecipe(items, yield); err != nil {
		return "", err
	}
	if _, ok := st.Product(productID); !ok {
		return "", entities.NotFoundf("product", productID)
	}

	if existing, ok := st.RecipeFor(productID); ok {
		existing.Items = slices.Clone(items)
		existing.Yield = yield
		return existing.ID, nil
	}

	recipe := entities.Recipe{
		ID:        st.NewID(),
		ProductID: productID,
		Yield:     yield,
		Items:     slices.Clone(items),
	}
	st.Recipes = append(st.Recipes, recipe)
	return recipe.ID, nil
}

// ComputeRequirements scales the product's recipe to produced units and prices each line at the live
// material price. Lines whose material no longer exists are skipped.
func ComputeRequirements(snapshot *state.Snapshot, productID string, produced decimal.Decimal) ([]dto.Requirement, error) {
	recipe, ok := snapshot.RecipeFor(productID)
	if !ok {
		return nil, fmt.Errorf("product %q: %w", productID, entities.ErrNoRecipe)
	}

	multiplier := recipe.Multiplier(produced)
	requirements := make([]dto.Requirement, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		material, ok := snapshot.Material(item.MaterialID)
		if !ok {
			continue
		}
		needed := item.Quantity.Mul(multiplier)
		requirements = append(requirements, dto.Requirement{
			MaterialID:       material.ID,
			MaterialName:     material.Name,
			Unit:             material.Unit,
			QuantityNeeded:   needed,
			PricePerUnit:     material.PricePerUnit,
			CostContribution: needed.Mul(material.PricePerUnit),
			Available:        material.Stock,
		})
	}

	return requirements, nil
}

// TotalCost sums the cost contributions of requirements
func TotalCost(requirements []dto.Requirement) decimal.Decimal {
	total := decimal.Zero
	for _, req := range requirements {
		total = total.Add(req.CostContribution)
	}
	return total
}

// ComputeUnitCost returns the material cost of one unit of the product. The boolean is false when the
// product has no recipe, which is different from a recipe that costs nothing.
func ComputeUnitCost(snapshot *state.Snapshot, productID string) (dto.UnitCost, bool) {
	recipe, ok := snapshot.RecipeFor(productID)
	if !ok {
		return dto.UnitCost{ProductID: productID}, false
	}

	yield := recipe.EffectiveYield()
	requirements, err := ComputeRequirements(snapshot, productID, yield)
	if err != nil {
		return dto.UnitCost{ProductID: productID}, false
	}
	batchCost := TotalCost(requirements)

	return dto.UnitCost{
		ProductID: productID,
		Yield:     yield,
		BatchCost: batchCost,
		PerUnit:   batchCost.Div(yield),
	}, true
}
