// Package ledger applies stock movements to materials and keeps the transaction log that makes them reversible.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// Movement is a stock movement to post against a material
type Movement struct {
	MaterialID         string
	Type               entities.TransactionType
	Quantity           decimal.Decimal
	Date               time.Time
	Note               string
	SourceProductionID string
}

// ApplyTransaction records the movement and moves the material's stock by +q for "in" and -q for "out".
// Stock has no lower bound here. Nothing is recorded when the material does not exist.
func ApplyTransaction(st *state.Store, mv Movement) (string, error) {
	tx, err := entities.NewMaterialTransaction(mv.MaterialID, mv.Type, mv.Quantity, mv.Date, mv.Note)
	if err != nil {
		return "", err
	}

	material, ok := st.Material(mv.MaterialID)
	if !ok {
		return "", entities.NotFoundf("material", mv.MaterialID)
	}

	tx.ID = st.NewID()
	tx.SourceProductionID = mv.SourceProductionID
	material.Stock = material.Stock.Add(tx.Type.Delta(tx.Quantity))
	st.MaterialTransactions = append(st.MaterialTransactions, *tx)

	return tx.ID, nil
}

// ReverseTransaction undoes the stock effect of a transaction and removes it.
// If the material is gone only the record is removed.
func ReverseTransaction(st *state.Store, transactionID string) error {
	tx, ok := st.MaterialTransaction(transactionID)
	if !ok {
		return entities.NotFoundf("material transaction", transactionID)
	}

	if material, ok := st.Material(tx.MaterialID); ok {
		material.Stock = material.Stock.Sub(tx.Type.Delta(tx.Quantity))
	}

	st.RemoveTransactions(func(t entities.MaterialTransaction) bool { return t.ID == transactionID })
	return nil
}

// DeleteMaterial removes a material, every transaction recorded against it, and its lines in all recipes.
// Recipes themselves are kept, even when they end up empty.
func DeleteMaterial(st *state.Store, materialID string) error {
	if !st.RemoveMaterial(materialID) {
		return entities.NotFoundf("material", materialID)
	}

	st.RemoveTransactions(func(t entities.MaterialTransaction) bool { return t.MaterialID == materialID })

	for i := range st.Recipes {
		recipe := &st.Recipes[i]
		if !recipe.Uses(materialID) {
			continue
		}
		items := make([]entities.RecipeItem, 0, len(recipe.Items))
		for _, item := range recipe.Items {
			if item.MaterialID != materialID {
				items = append(items, item)
			}
		}
		recipe.Items = items
	}

	return nil
}
