// Package production runs production orders: it validates material stock, posts the material
// consumption through the ledger, credits finished goods and freezes the cost of the run.
//
// Functions mutate the given store in place and may leave it half-updated when they fail.
// The command reducer discards the store on error, which is what makes each run atomic.
package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/application/dto"
	"github.com/vsinha/bakeshop/pkg/application/services/costing"
	"github.com/vsinha/bakeshop/pkg/application/services/ledger"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// Note is the transaction note written for the material consumption of a run
func Note(quantity int64, productName string) string {
	return fmt.Sprintf("%s %s", notePrefix(quantity), productName)
}

func notePrefix(quantity int64) string {
	return fmt.Sprintf("Produksi %dx", quantity)
}

// CanProduce prices the run at current material prices and lists every material whose stock is short
func CanProduce(snapshot *state.Snapshot, productID string, quantity int64) (*dto.ProductionCheck, error) {
	if quantity <= 0 {
		return nil, entities.Invalidf("production quantity must be positive, got %d", quantity)
	}
	if _, ok := snapshot.Product(productID); !ok {
		return nil, entities.NotFoundf("product", productID)
	}

	requirements, err := costing.ComputeRequirements(snapshot, productID, decimal.NewFromInt(quantity))
	if err != nil {
		return nil, err
	}

	check := &dto.ProductionCheck{
		ProductID:    productID,
		Quantity:     quantity,
		Requirements: requirements,
		TotalCost:    costing.TotalCost(requirements),
		Shortfalls:   []entities.Shortfall{},
	}
	check.CostPerUnit = check.TotalCost.Div(decimal.NewFromInt(quantity))

	for _, req := range requirements {
		if !req.Sufficient() {
			check.Shortfalls = append(check.Shortfalls, entities.Shortfall{
				MaterialID:   req.MaterialID,
				MaterialName: req.MaterialName,
				Required:     req.QuantityNeeded,
				Available:    req.Available,
			})
		}
	}

	return check, nil
}

// Commit produces quantity units of a product. Stock is re-validated here rather than trusted from an
// earlier CanProduce, and the material prices of this moment are frozen into the production record.
func Commit(st *state.Store, productID string, quantity int64, date time.Time) (*entities.Production, error) {
	check, err := CanProduce(&st.Snapshot, productID, quantity)
	if err != nil {
		return nil, err
	}
	if !check.CanProduce() {
		return nil, &entities.InsufficientStockError{ProductID: productID, Shortfalls: check.Shortfalls}
	}

	productionID := st.NewID()
	note := Note(quantity, st.ProductName(productID))

	consumption := make([]entities.MaterialUsage, 0, len(check.Requirements))
	for _, req := range check.Requirements {
		if !req.QuantityNeeded.IsPositive() {
			continue
		}
		_, err := ledger.ApplyTransaction(st, ledger.Movement{
			MaterialID:         req.MaterialID,
			Type:               entities.Out,
			Quantity:           req.QuantityNeeded,
			Date:               date,
			Note:               note,
			SourceProductionID: productionID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to consume %s: %w", req.MaterialName, err)
		}
		consumption = append(consumption, entities.MaterialUsage{
			MaterialID:   req.MaterialID,
			Quantity:     req.QuantityNeeded,
			PricePerUnit: req.PricePerUnit,
			Cost:         req.CostContribution,
		})
	}

	production, err := entities.NewProduction(productID, quantity, date, consumption)
	if err != nil {
		return nil, err
	}
	production.ID = productionID
	production.Linked = true

	st.AdjustProductStock(productID, quantity)
	st.Productions = append(st.Productions, *production)

	return production, nil
}

// Delete reverses a production: finished goods are debited and the material transactions the run
// posted are reversed through the ledger, restoring exactly what was consumed.
//
// Productions recorded before transactions carried their production id are not marked Linked and have
// neither consumption nor linked transactions. For those the current recipe is used to restore stock and transactions are
// matched by date and note prefix, which is only exact if the recipe has not changed since.
func Delete(st *state.Store, productionID string) error {
	found, ok := st.Production(productionID)
	if !ok {
		return entities.NotFoundf("production", productionID)
	}
	prod := *found

	st.AdjustProductStock(prod.ProductID, -prod.Quantity)

	linked := st.TransactionsOfProduction(productionID)
	if prod.Linked || len(linked) > 0 || len(prod.Consumption) > 0 {
		for _, tx := range linked {
			if err := ledger.ReverseTransaction(st, tx.ID); err != nil {
				return fmt.Errorf("failed to reverse consumption of production %s: %w", productionID, err)
			}
		}
	} else {
		restoreFromCurrentRecipe(st, prod)
	}

	st.RemoveProduction(productionID)
	return nil
}

func restoreFromCurrentRecipe(st *state.Store, prod entities.Production) {
	if recipe, ok := st.RecipeFor(prod.ProductID); ok {
		multiplier := recipe.Multiplier(decimal.NewFromInt(prod.Quantity))
		for _, item := range recipe.Items {
			if material, ok := st.Material(item.MaterialID); ok {
				material.Stock = material.Stock.Add(item.Quantity.Mul(multiplier))
			}
		}
	}

	prefix := notePrefix(prod.Quantity)
	st.RemoveTransactions(func(t entities.MaterialTransaction) bool {
		return t.SourceProductionID == "" && t.Date.Equal(prod.Date) && strings.HasPrefix(t.Note, prefix)
	})
}
