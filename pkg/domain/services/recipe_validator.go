package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// ValidationResult contains the results of a consistency check over a snapshot
type ValidationResult struct {
	OrphanedItems      []OrphanedItem
	DuplicateRecipes   []string // product ids with more than one recipe
	DuplicateMaterials []DuplicateMaterial
	Errors             []string
}

// OrphanedItem is a recipe line whose material no longer exists
type OrphanedItem struct {
	ProductID  string
	MaterialID string
}

// DuplicateMaterial is a material listed more than once in the same recipe
type DuplicateMaterial struct {
	ProductID  string
	MaterialID string
}

// HasProblems reports whether anything was found
func (r *ValidationResult) HasProblems() bool {
	return len(r.Errors) > 0
}

// ValidateRecipe checks recipe input before it replaces a product's recipe
func ValidateRecipe(items []entities.RecipeItem, yield decimal.Decimal) error {
	if !yield.IsPositive() {
		return entities.Invalidf("recipe yield must be positive, got %s", yield)
	}
	for i, item := range items {
		if _, err := entities.NewRecipeItem(item.MaterialID, item.Quantity); err != nil {
			return fmt.Errorf("recipe item %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateSnapshot performs consistency validation between recipes and materials
func ValidateSnapshot(snapshot *state.Snapshot) *ValidationResult {
	result := &ValidationResult{
		OrphanedItems:      make([]OrphanedItem, 0),
		DuplicateRecipes:   make([]string, 0),
		DuplicateMaterials: make([]DuplicateMaterial, 0),
		Errors:             make([]string, 0),
	}

	materialExists := make(map[string]bool, len(snapshot.Materials))
	for _, m := range snapshot.Materials {
		materialExists[m.ID] = true
	}

	recipeCount := make(map[string]int)
	for _, recipe := range snapshot.Recipes {
		recipeCount[recipe.ProductID]++
		if recipeCount[recipe.ProductID] == 2 {
			result.DuplicateRecipes = append(result.DuplicateRecipes, recipe.ProductID)
		}

		seen := make(map[string]bool)
		for _, item := range recipe.Items {
			if !materialExists[item.MaterialID] {
				result.OrphanedItems = append(result.OrphanedItems, OrphanedItem{
					ProductID:  recipe.ProductID,
					MaterialID: item.MaterialID,
				})
			}
			if seen[item.MaterialID] {
				result.DuplicateMaterials = append(result.DuplicateMaterials, DuplicateMaterial{
					ProductID:  recipe.ProductID,
					MaterialID: item.MaterialID,
				})
			}
			seen[item.MaterialID] = true
		}
	}

	for _, orphan := range result.OrphanedItems {
		result.Errors = append(result.Errors,
			fmt.Sprintf("recipe of %s references missing material %s", orphan.ProductID, orphan.MaterialID))
	}
	for _, productID := range result.DuplicateRecipes {
		result.Errors = append(result.Errors, fmt.Sprintf("product %s has more than one recipe", productID))
	}
	for _, dup := range result.DuplicateMaterials {
		result.Errors = append(result.Errors,
			fmt.Sprintf("recipe of %s lists material %s more than once", dup.ProductID, dup.MaterialID))
	}

	return result
}

// MigrateSnapshot normalises a loaded snapshot: nil collections become empty (Clone does that), recipe items
// pointing at missing materials are pruned, and only the first recipe of each product is kept.
func MigrateSnapshot(snapshot state.Snapshot) state.Snapshot {
	migrated := snapshot.Clone()
	if migrated.AppSettings.AppName == "" {
		migrated.AppSettings.AppName = entities.DefaultSettings().AppName
	}

	materialExists := make(map[string]bool, len(migrated.Materials))
	for _, m := range migrated.Materials {
		materialExists[m.ID] = true
	}

	seenProduct := make(map[string]bool)
	recipes := make([]entities.Recipe, 0, len(migrated.Recipes))
	for _, recipe := range migrated.Recipes {
		if seenProduct[recipe.ProductID] {
			continue
		}
		seenProduct[recipe.ProductID] = true

		items := make([]entities.RecipeItem, 0, len(recipe.Items))
		for _, item := range recipe.Items {
			if materialExists[item.MaterialID] {
				items = append(items, item)
			}
		}
		recipe.Items = items
		recipes = append(recipes, recipe)
	}
	migrated.Recipes = recipes

	return migrated
}
